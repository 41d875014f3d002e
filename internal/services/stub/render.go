package stub

import (
	"bytes"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
)

// climate color ramp, cold to hot
var ramp = []color.RGBA{
	{49, 54, 149, 255},
	{69, 117, 180, 255},
	{116, 173, 209, 255},
	{171, 217, 233, 255},
	{254, 224, 144, 255},
	{253, 174, 97, 255},
	{244, 109, 67, 255},
	{215, 48, 39, 255},
}

// renderMap draws a deterministic placeholder map for the given inputs.
// The same pair of filenames always yields the same image, which keeps
// integration runs comparable
func renderMap(docName, geomName string) ([]byte, error) {
	const w, h = 640, 480

	seed := fnv.New32a()
	_, _ = seed.Write([]byte(docName))
	_, _ = seed.Write([]byte(geomName))
	base := seed.Sum32()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// banded zones offset by the input hash
			zone := (uint32(x/80) + uint32(y/60) + base) % uint32(len(ramp))
			img.SetRGBA(x, y, ramp[zone])
		}
	}

	// grid lines so the output reads as a map, not a gradient
	grid := color.RGBA{255, 255, 255, 255}
	for y := 0; y < h; y += 60 {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, grid)
		}
	}
	for x := 0; x < w; x += 80 {
		for y := 0; y < h; y++ {
			img.SetRGBA(x, y, grid)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// geoJSON output types, matching the FeatureCollection shape of the optional
// vector response
type featureColl struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   geometry       `json:"geometry"`
}

type geometry struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// featureCollection builds a small deterministic set of polygon zones
func featureCollection(docName, geomName string) featureColl {
	seed := fnv.New32a()
	_, _ = seed.Write([]byte(docName))
	_, _ = seed.Write([]byte(geomName))
	base := float64(seed.Sum32()%100) / 10

	feats := make([]feature, 0, 4)
	for i := 0; i < 4; i++ {
		x := base + float64(i)
		feats = append(feats, feature{
			Type: "Feature",
			Properties: map[string]any{
				"zona":        i + 1,
				"temperatura": 10 + base + float64(i)*2.5,
			},
			Geometry: geometry{
				Type: "Polygon",
				Coordinates: [][][2]float64{{
					{x, 0}, {x + 1, 0}, {x + 1, 1}, {x, 1}, {x, 0},
				}},
			},
		})
	}
	return featureColl{Type: "FeatureCollection", Features: feats}
}
