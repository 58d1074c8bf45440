// Package site loads the landing page copy. The default content is embedded;
// a YAML file with the same shape can replace it at startup.
package site

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"

	"github.com/wolfman30/barbershop-booking-site/internal/bookings"
)

//go:embed content.yaml
var defaultContent []byte

// mdRenderer renders the owner-provided copy. Raw HTML in the source is
// dropped.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

type Business struct {
	Name    string `yaml:"name"`
	Owner   string `yaml:"owner"`
	City    string `yaml:"city"`
	Address string `yaml:"address"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
}

type Hero struct {
	Title     string `yaml:"title"`
	Highlight string `yaml:"highlight"`
	Subtitle  string `yaml:"subtitle"`
	Image     string `yaml:"image"`
	CTA       string `yaml:"cta"`
}

type About struct {
	Title    string `yaml:"title"`
	Image    string `yaml:"image"`
	ImageAlt string `yaml:"image_alt"`
	Markdown string `yaml:"markdown"`
	// HTML is Markdown rendered at load time.
	HTML template.HTML `yaml:"-"`
}

// ServiceCopy adds marketing text to a catalog service.
type ServiceCopy struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
	PriceNote   string `yaml:"price_note"`
}

type PortfolioItem struct {
	Title     string `yaml:"title"`
	Text      string `yaml:"text"`
	Before    string `yaml:"before"`
	After     string `yaml:"after"`
	BeforeAlt string `yaml:"before_alt"`
	AfterAlt  string `yaml:"after_alt"`
}

type Portfolio struct {
	Intro string          `yaml:"intro"`
	Items []PortfolioItem `yaml:"items"`
}

type Gallery struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Image    string `yaml:"image"`
	Count    int    `yaml:"count"`
}

type Testimonial struct {
	Name   string `yaml:"name"`
	Rating int    `yaml:"rating"`
	Text   string `yaml:"text"`
}

type OpeningHours struct {
	Days string `yaml:"days"`
	Time string `yaml:"time"`
}

// Content is everything shown on the landing page.
type Content struct {
	Business     Business       `yaml:"business"`
	Hero         Hero           `yaml:"hero"`
	About        About          `yaml:"about"`
	Services     []ServiceCopy  `yaml:"services"`
	Portfolio    Portfolio      `yaml:"portfolio"`
	Gallery      Gallery        `yaml:"gallery"`
	Testimonials []Testimonial  `yaml:"testimonials"`
	Hours        []OpeningHours `yaml:"hours"`
}

// Load reads content from path, or the embedded default when path is empty.
func Load(path string) (*Content, error) {
	raw := defaultContent
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("site: read %s: %w", path, err)
		}
		raw = b
	}
	return Parse(raw)
}

// Parse decodes and validates YAML content.
func Parse(raw []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("site: decode content: %w", err)
	}
	if strings.TrimSpace(c.Business.Name) == "" {
		return nil, errors.New("site: business name is required")
	}
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(c.About.Markdown), &buf); err != nil {
		return nil, fmt.Errorf("site: render about: %w", err)
	}
	c.About.HTML = template.HTML(buf.String())
	for i := range c.Testimonials {
		if c.Testimonials[i].Rating < 0 {
			c.Testimonials[i].Rating = 0
		}
		if c.Testimonials[i].Rating > 5 {
			c.Testimonials[i].Rating = 5
		}
	}
	return &c, nil
}

// ServiceCard is a catalog service merged with its marketing copy.
type ServiceCard struct {
	bookings.Service
	Description string
	PriceLabel  string
}

// ServiceCards returns the catalog in order, decorated with copy.
func (c *Content) ServiceCards(catalog *bookings.Catalog) []ServiceCard {
	copyByID := make(map[string]ServiceCopy, len(c.Services))
	for _, s := range c.Services {
		copyByID[s.ID] = s
	}
	cards := make([]ServiceCard, 0, len(catalog.Services))
	for _, s := range catalog.Services {
		sc := copyByID[s.ID]
		label := s.Price
		if sc.PriceNote != "" {
			label = sc.PriceNote
		}
		cards = append(cards, ServiceCard{Service: s, Description: sc.Description, PriceLabel: label})
	}
	return cards
}

// GalleryItem is one tile of the gallery grid.
type GalleryItem struct {
	Index int
	Image string
	Alt   string
}

// GalleryItems expands the gallery into numbered tiles.
func (c *Content) GalleryItems() []GalleryItem {
	items := make([]GalleryItem, 0, c.Gallery.Count)
	for i := 1; i <= c.Gallery.Count; i++ {
		items = append(items, GalleryItem{
			Index: i,
			Image: fmt.Sprintf("%s&sat=%d", c.Gallery.Image, i*10),
			Alt:   fmt.Sprintf("Férfi hajvágás %s - példa %d", c.Business.City, i),
		})
	}
	return items
}
