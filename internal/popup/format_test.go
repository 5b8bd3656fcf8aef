package popup

import (
	"strings"
	"testing"

	"github.com/woozymasta/citymap/internal/feature"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func classify(c feature.Category, props geojson.Properties) feature.Classified {
	f := geojson.NewFeature(orb.Point{16.37, 48.21})
	f.Properties = props
	return feature.Classify(0, f, c)
}

func field(t *testing.T, c Content, key string) Field {
	t.Helper()
	f, ok := c.Field(key)
	if !ok {
		t.Fatalf("field %q missing in %+v", key, c)
	}
	return f
}

func TestFormat_PedestrianZoneFallbacks(t *testing.T) {
	c := Format(classify(feature.PedestrianZone, geojson.Properties{
		feature.KeyAddress: "Graben",
	}))

	if c.Title != "Pedestrian zone Graben" {
		t.Fatalf("title = %q", c.Title)
	}
	if got := field(t, c, "period").Text; got != FallbackPeriod {
		t.Fatalf("period = %q, want %q", got, FallbackPeriod)
	}
	if got := field(t, c, "exceptions").Text; got != FallbackExceptions {
		t.Fatalf("exceptions = %q, want %q", got, FallbackExceptions)
	}

	c = Format(classify(feature.PedestrianZone, geojson.Properties{
		feature.KeyAddress:    "Kärntner Straße",
		feature.KeyPeriod:     "Mo-Sa 10-19",
		feature.KeyExceptions: "Lieferverkehr 6-10",
	}))
	if field(t, c, "period").Text != "Mo-Sa 10-19" || field(t, c, "exceptions").Text != "Lieferverkehr 6-10" {
		t.Fatalf("unexpected zone popup %+v", c)
	}
}

func TestFormat_TransitLine(t *testing.T) {
	c := Format(classify(feature.TransitLine, geojson.Properties{
		feature.KeyLineName: "Blue Line",
		feature.KeyFromName: "Oper",
		feature.KeyToName:   "Schloss Schönbrunn",
	}))
	if c.Title != "Blue Line" {
		t.Fatalf("title = %q", c.Title)
	}
	if field(t, c, "from").Text != "Oper" || field(t, c, "to").Text != "Schloss Schönbrunn" {
		t.Fatalf("unexpected line popup %+v", c)
	}
	text := c.Text()
	if !strings.Contains(text, "Oper") || !strings.Contains(text, "Schloss Schönbrunn") {
		t.Fatalf("flattened text lacks stops: %q", text)
	}
}

func TestFormat_TransitStop(t *testing.T) {
	c := Format(classify(feature.TransitStop, geojson.Properties{
		feature.KeyLineName:    "Red Line",
		feature.KeyStationID:   float64(12),
		feature.KeyStationName: "Stephansplatz",
	}))
	if c.Title != "Red Line" || field(t, c, "station").Text != "12 Stephansplatz" {
		t.Fatalf("unexpected stop popup %+v", c)
	}

	c = Format(classify(feature.TransitStop, geojson.Properties{feature.KeyStationName: "Albertina"}))
	if field(t, c, "station").Text != "Albertina" || c.Title != "" {
		t.Fatalf("unexpected stop popup without id %+v", c)
	}
}

func TestFormat_PointOfInterest(t *testing.T) {
	c := Format(classify(feature.PointOfInterest, geojson.Properties{
		feature.KeyName:      "Stephansdom",
		feature.KeyAddress:   "Stephansplatz 1",
		feature.KeyThumbnail: "https://example.org/dom.jpg",
		feature.KeyMoreInfo:  "https://example.org/dom",
	}))
	name := field(t, c, "name")
	if name.Kind != KindLink || name.Href != "https://example.org/dom" || name.Text != "Stephansdom" {
		t.Fatalf("unexpected name field %+v", name)
	}
	if thumb := field(t, c, "thumbnail"); thumb.Kind != KindImage || thumb.Href == "" {
		t.Fatalf("unexpected thumbnail %+v", thumb)
	}

	c = Format(classify(feature.PointOfInterest, nil))
	if name := field(t, c, "name"); name.Kind != KindText || name.Text != "" {
		t.Fatalf("name without link should be plain text, got %+v", name)
	}
	if _, ok := c.Field("thumbnail"); ok {
		t.Fatalf("thumbnail should be omitted when absent")
	}
}

func TestFormat_Accommodation(t *testing.T) {
	c := Format(classify(feature.Accommodation, geojson.Properties{
		feature.KeyBusiness:     "Hotel Sacher",
		feature.KeyBusinessType: "Hotel",
		feature.KeyRating:       "5*",
		feature.KeyAddress:      "Philharmoniker Straße 4",
		feature.KeyPhone:        "+43 1 514 56",
		feature.KeyEmail:        "wien@sacher.com",
		feature.KeyWebsite:      "https://www.sacher.com",
	}))

	if c.Title != "Hotel Sacher" || c.Subtitle != "Hotel 5*" {
		t.Fatalf("unexpected header %q / %q", c.Title, c.Subtitle)
	}
	if phone := field(t, c, "phone"); phone.Href != "tel:+43151456" || phone.Text != "+43 1 514 56" {
		t.Fatalf("unexpected phone %+v", phone)
	}
	if mail := field(t, c, "email"); mail.Href != "mailto:wien@sacher.com" {
		t.Fatalf("unexpected email %+v", mail)
	}
	if web := field(t, c, "website"); web.Href != "https://www.sacher.com" || web.Text != WebsiteText {
		t.Fatalf("unexpected website %+v", web)
	}
}

func TestFormat_NeverFailsOnEmptyRecords(t *testing.T) {
	for _, cat := range append([]feature.Category{"unlisted"}, feature.Categories...) {
		for _, props := range []geojson.Properties{nil, {}, {"UNRELATED": []interface{}{1}}} {
			c := Format(classify(cat, props))
			if c.Fields == nil {
				t.Fatalf("%s: fields should never be nil", cat)
			}
			if _, err := RenderHTML(c); err != nil {
				t.Fatalf("%s: RenderHTML error: %v", cat, err)
			}
		}
	}

	c := Format(classify(feature.Accommodation, nil))
	for _, key := range []string{"address", "phone", "email", "website"} {
		f := field(t, c, key)
		if f.Text != "" || f.Href != "" {
			t.Fatalf("%s should render empty, got %+v", key, f)
		}
	}
}

func TestFormat_AccommodationPhoneWithoutDigits(t *testing.T) {
	for _, number := range []string{"n/a", "+", "on request"} {
		c := Format(classify(feature.Accommodation, geojson.Properties{
			feature.KeyBusiness: "Pension Nord",
			feature.KeyPhone:    number,
		}))
		phone := field(t, c, "phone")
		if phone.Href != "" || phone.Kind != KindText || phone.Text != number {
			t.Fatalf("%q: expected plain text phone, got %+v", number, phone)
		}

		out, err := RenderHTML(c)
		if err != nil {
			t.Fatalf("RenderHTML error: %v", err)
		}
		if strings.Contains(out, "tel:") {
			t.Fatalf("%q: empty tel link rendered: %s", number, out)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	c := Content{
		Title:    "Hotel <b>Bold</b>",
		Subtitle: "Pension 3*",
		Fields: []Field{
			{Key: "phone", Label: "Phone", Kind: KindPhone, Text: "+43 1", Href: "tel:+431"},
			{Key: "website", Label: "Website", Kind: KindLink, Text: "Homepage", Href: "javascript:alert(1)"},
			{Key: "thumbnail", Label: "Thumbnail", Kind: KindImage, Href: "https://example.org/a.jpg"},
			{Key: "empty", Label: "Empty", Kind: KindText},
		},
	}

	out, err := RenderHTML(c)
	if err != nil {
		t.Fatalf("RenderHTML error: %v", err)
	}
	if strings.Contains(out, "<b>") {
		t.Fatalf("title should be escaped: %s", out)
	}
	if !strings.Contains(out, "tel:+431") {
		t.Fatalf("phone href missing: %s", out)
	}
	if strings.Contains(out, "javascript:") {
		t.Fatalf("unsafe href should be dropped: %s", out)
	}
	if !strings.Contains(out, "https://example.org/a.jpg") {
		t.Fatalf("thumbnail missing: %s", out)
	}
	if strings.Contains(out, "Empty") {
		t.Fatalf("empty field should not render: %s", out)
	}
}
