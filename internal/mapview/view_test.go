package mapview

import (
	"reflect"
	"testing"

	"github.com/woozymasta/citymap/internal/layer"
)

func TestView(t *testing.T) {
	v := New()
	first := &layer.Layer{Name: "stops"}
	second := &layer.Layer{Name: "stops"}

	v.Add("stops", first)
	v.Add("hotels", &layer.Layer{Name: "hotels"})
	v.Add("stops", second)

	if got := v.Names(); !reflect.DeepEqual(got, []string{"hotels", "stops"}) {
		t.Fatalf("unexpected names %v", got)
	}
	if l, ok := v.Layer("stops"); !ok || l != second {
		t.Fatalf("adding an existing name should swap its group")
	}

	v.Remove("stops")
	v.Remove("trams")
	if v.Has("stops") || !v.Has("hotels") {
		t.Fatalf("unexpected composition %v", v.Names())
	}
}
