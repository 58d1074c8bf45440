package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/barbershop-booking-site/internal/bookings"
)

func TestLoadDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Ujfalussy Milán Fodrászat", c.Business.Name)
	assert.Equal(t, "Veszprém, Pápai utca 15", c.Business.Address)
	assert.Len(t, c.Portfolio.Items, 3)
	assert.Len(t, c.Testimonials, 3)
	assert.Len(t, c.Hours, 3)
	assert.Contains(t, string(c.About.HTML), "<strong>Jendra iskolában</strong>")
	assert.Len(t, c.GalleryItems(), 6)
}

func TestParseOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	body := "business:\n  name: Teszt\n  city: Győr\nabout:\n  markdown: \"<script>x</script>\\n\\n*hi*\"\ngallery:\n  image: img?x=1\n  count: 2\ntestimonials:\n  - name: A\n    rating: 9\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Teszt", c.Business.Name)
	assert.NotContains(t, string(c.About.HTML), "<script>")
	assert.Contains(t, string(c.About.HTML), "<em>hi</em>")
	assert.Equal(t, 5, c.Testimonials[0].Rating)

	items := c.GalleryItems()
	require.Len(t, items, 2)
	assert.Equal(t, "img?x=1&sat=20", items[1].Image)
	assert.True(t, strings.Contains(items[0].Alt, "Győr"))
}

func TestParseRequiresBusinessName(t *testing.T) {
	_, err := Parse([]byte("hero:\n  title: x\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestServiceCards(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	cards := c.ServiceCards(bookings.DefaultCatalog())
	require.Len(t, cards, 3)
	assert.Equal(t, "Férfi Hajvágás", cards[0].Name)
	assert.Equal(t, "Ingyenes (bevezető)", cards[0].PriceLabel)
	assert.Equal(t, "Hamarosan", cards[1].PriceLabel)
	assert.True(t, cards[2].Disabled)
}
