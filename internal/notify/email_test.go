package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{FromEmail: "test@example.com"}, nil)
	if sender != nil {
		t.Error("expected nil sender when API key is empty")
	}
}

func TestNewSendGridSender_DefaultFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{APIKey: "test-key", FromEmail: "test@example.com"}, nil)
	if sender == nil {
		t.Fatal("expected non-nil sender")
	}
	if sender.fromName != defaultFromName {
		t.Errorf("expected default from name %q, got %q", defaultFromName, sender.fromName)
	}
}

func TestSendGridSender_MessageReplyTo(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{APIKey: "k", FromEmail: "shop@example.com", FromName: "Shop"}, nil)
	m := sender.message(EmailMessage{To: "owner@example.com", ReplyTo: "visitor@example.com", Subject: "Hi", Body: "line1\nline2"})

	if m.ReplyTo == nil || m.ReplyTo.Address != "visitor@example.com" {
		t.Fatalf("reply-to not set: %+v", m.ReplyTo)
	}
	if m.From.Address != "shop@example.com" || m.From.Name != "Shop" {
		t.Fatalf("unexpected from %+v", m.From)
	}
	if len(m.Content) != 2 || m.Content[1].Value != "line1<br>line2" {
		t.Fatalf("unexpected content %+v", m.Content)
	}
}

func TestSendGridSender_Send_NilClient(t *testing.T) {
	sender := &SendGridSender{logger: nil}
	if err := sender.Send(context.Background(), EmailMessage{To: "x@example.com"}); err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestStubEmailSender_RecordsMessages(t *testing.T) {
	stub := NewStubEmailSender(nil)
	if err := stub.Send(context.Background(), EmailMessage{To: "a@example.com", Subject: "s"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sent := stub.Sent()
	if len(sent) != 1 || sent[0].To != "a@example.com" {
		t.Fatalf("unexpected sent messages %+v", sent)
	}
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestNewSESSender_NilWithoutClient(t *testing.T) {
	if NewSESSender(nil, SESConfig{}, nil) != nil {
		t.Fatal("expected nil sender without client")
	}
}

func TestSESSender_Send(t *testing.T) {
	api := &fakeSES{}
	sender := NewSESSender(api, SESConfig{FromEmail: "shop@example.com"}, nil)

	err := sender.Send(context.Background(), EmailMessage{To: "c@example.com", ReplyTo: "owner@example.com", Subject: "Tárgy", Body: "Szöveg"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	in := api.input
	if aws.ToString(in.FromEmailAddress) != defaultFromName+" <shop@example.com>" {
		t.Fatalf("from = %q", aws.ToString(in.FromEmailAddress))
	}
	if in.Destination.ToAddresses[0] != "c@example.com" {
		t.Fatalf("to = %v", in.Destination.ToAddresses)
	}
	if len(in.ReplyToAddresses) != 1 || in.ReplyToAddresses[0] != "owner@example.com" {
		t.Fatalf("reply-to = %v", in.ReplyToAddresses)
	}
	if aws.ToString(in.Content.Simple.Body.Text.Data) != "Szöveg" {
		t.Fatalf("body = %q", aws.ToString(in.Content.Simple.Body.Text.Data))
	}
	if in.Content.Simple.Body.Html != nil {
		t.Fatalf("html body should be empty")
	}
}

func TestSESSender_SendError(t *testing.T) {
	sender := NewSESSender(&fakeSES{err: errors.New("throttled")}, SESConfig{FromEmail: "shop@example.com"}, nil)
	if err := sender.Send(context.Background(), EmailMessage{To: "c@example.com"}); err == nil {
		t.Fatal("expected error")
	}
}
