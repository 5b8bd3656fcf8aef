package config

import (
	"github.com/woozymasta/citymap/internal/feature"
)

const wfsBase = "https://data.wien.gv.at/daten/geo?service=WFS&request=GetFeature&version=1.1.0&srsName=EPSG:4326&outputFormat=json&typeName="

// Default returns the built-in configuration: Vienna open-data layers
// centered on Stephansdom.
func Default() *Config {
	return &Config{
		Center:   LatLng{Lat: 48.208493, Lng: 16.373118},
		Zoom:     15,
		IconsDir: "icons",
		Layers: []Layer{
			{
				Name:     "stops",
				Title:    "Vienna Sightseeing stops",
				Category: feature.TransitStop,
				URL:      wfsBase + "ogdwien:TOURISTIKHTSVSLOGD",
			},
			{
				Name:     "lines",
				Title:    "Vienna Sightseeing lines",
				Category: feature.TransitLine,
				URL:      wfsBase + "ogdwien:TOURISTIKLINIEVSLOGD",
			},
			{
				Name:     "zones",
				Title:    "Pedestrian zones",
				Category: feature.PedestrianZone,
				URL:      wfsBase + "ogdwien:FUSSGEHERZONEOGD",
			},
			{
				Name:     "sites",
				Title:    "Sights",
				Category: feature.PointOfInterest,
				URL:      wfsBase + "ogdwien:SEHENSWUERDIGOGD",
			},
			{
				Name:        "hotels",
				Title:       "Hotels and accommodation",
				Category:    feature.Accommodation,
				URL:         wfsBase + "ogdwien:UNTERKUNFTOGD",
				Cluster:     true,
				ClusterZoom: 17,
			},
		},
	}
}
