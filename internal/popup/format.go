// Package popup turns classified feature attributes into structured
// description blocks.
package popup

import (
	"strings"

	"github.com/woozymasta/citymap/internal/feature"
)

// Fallback texts for absent optional fields.
const (
	FallbackPeriod     = "permanent"
	FallbackExceptions = "no exceptions"
	WebsiteText        = "Homepage"
)

// Kind tells the renderer how to present a field.
type Kind string

// Field kinds.
const (
	KindText  Kind = "text"
	KindLink  Kind = "link"
	KindPhone Kind = "phone"
	KindMail  Kind = "mail"
	KindImage Kind = "image"
)

// Field is one labeled entry of a popup.
type Field struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Kind  Kind   `json:"kind" yaml:"kind"`
	Text  string `json:"text" yaml:"text"`
	Href  string `json:"href,omitempty" yaml:"href,omitempty"`
}

// Content is the structured popup of one feature.
type Content struct {
	Title    string  `json:"title" yaml:"title"`
	Subtitle string  `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Fields   []Field `json:"fields" yaml:"fields"`
}

// Field looks up a field by key.
func (c Content) Field(key string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Text flattens the content into plain lines, mainly for logs and search.
func (c Content) Text() string {
	lines := make([]string, 0, len(c.Fields)+2)
	if c.Title != "" {
		lines = append(lines, c.Title)
	}
	if c.Subtitle != "" {
		lines = append(lines, c.Subtitle)
	}
	for _, f := range c.Fields {
		if f.Kind == KindImage || f.Text == "" {
			continue
		}
		lines = append(lines, f.Label+": "+f.Text)
	}
	return strings.Join(lines, "\n")
}

// Formatter renders a classified feature into popup content.
type Formatter func(feature.Classified) Content

var formatters = map[feature.Category]Formatter{
	feature.TransitStop:     transitStop,
	feature.TransitLine:     transitLine,
	feature.PedestrianZone:  pedestrianZone,
	feature.PointOfInterest: pointOfInterest,
	feature.Accommodation:   accommodation,
}

// Format renders the popup of a classified feature. It never fails; missing
// identity fields render empty and missing optional fields use their
// fallback text.
func Format(c feature.Classified) Content {
	if f, ok := formatters[c.Category]; ok {
		return f(c)
	}
	return Content{Title: c.Name, Fields: []Field{}}
}

func text(key, label, value string) Field {
	return Field{Key: key, Label: label, Kind: KindText, Text: value}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

func transitStop(c feature.Classified) Content {
	return Content{
		Title: c.Attr(feature.KeyLineName),
		Fields: []Field{
			text("station", "Station", joinNonEmpty(c.Attr(feature.KeyStationID), c.Attr(feature.KeyStationName))),
		},
	}
}

func transitLine(c feature.Classified) Content {
	return Content{
		Title: c.Attr(feature.KeyLineName),
		Fields: []Field{
			text("from", "From", c.Attr(feature.KeyFromName)),
			text("to", "To", c.Attr(feature.KeyToName)),
		},
	}
}

func pedestrianZone(c feature.Classified) Content {
	return Content{
		Title: joinNonEmpty("Pedestrian zone", c.Address),
		Fields: []Field{
			text("address", "Address", c.Address),
			text("period", "Period", orDefault(c.Attr(feature.KeyPeriod), FallbackPeriod)),
			text("exceptions", "Exceptions", orDefault(c.Attr(feature.KeyExceptions), FallbackExceptions)),
		},
	}
}

func pointOfInterest(c feature.Classified) Content {
	name := Field{Key: "name", Label: "Name", Kind: KindText, Text: c.Name}
	if href := c.Attr(feature.KeyMoreInfo); href != "" {
		name.Kind = KindLink
		name.Href = href
	}

	fields := make([]Field, 0, 3)
	if thumb := c.Attr(feature.KeyThumbnail); thumb != "" {
		fields = append(fields, Field{Key: "thumbnail", Label: "Thumbnail", Kind: KindImage, Href: thumb})
	}
	fields = append(fields, name, text("address", "Address", c.Address))

	return Content{
		Title:  c.Name,
		Fields: fields,
	}
}

func accommodation(c feature.Classified) Content {
	phone := Field{Key: "phone", Label: "Phone", Kind: KindPhone, Text: c.Attr(feature.KeyPhone)}
	if number := dialable(phone.Text); number != "" {
		phone.Href = "tel:" + number
	} else if phone.Text != "" {
		phone.Kind = KindText
	}

	email := Field{Key: "email", Label: "Email", Kind: KindMail, Text: c.Attr(feature.KeyEmail)}
	if email.Text != "" {
		email.Href = "mailto:" + strings.TrimSpace(email.Text)
	}

	website := Field{Key: "website", Label: "Website", Kind: KindLink}
	if href := c.Attr(feature.KeyWebsite); href != "" {
		website.Text = WebsiteText
		website.Href = href
	}

	return Content{
		Title:    c.Name,
		Subtitle: joinNonEmpty(c.Attr(feature.KeyBusinessType), c.Attr(feature.KeyRating)),
		Fields: []Field{
			text("address", "Address", c.Address),
			phone,
			email,
			website,
		},
	}
}

// dialable strips characters a tel: reference cannot carry. Text without
// any digit yields "".
func dialable(number string) string {
	var b strings.Builder
	digits := 0
	for _, r := range number {
		switch {
		case r >= '0' && r <= '9':
			digits++
			b.WriteRune(r)
		case r == '+':
			b.WriteRune(r)
		}
	}
	if digits == 0 {
		return ""
	}
	return b.String()
}
