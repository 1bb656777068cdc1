package atlaspack

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises how well a set of sprites filled its atlas.
type Stats struct {
	Sprites    int
	AtlasArea  int
	SpriteArea int
	// Fill is SpriteArea / AtlasArea.
	Fill float64
	// MeanArea and StdDevArea describe the distribution of sprite areas.
	MeanArea   float64
	StdDevArea float64
}

// ComputeStats measures the packing density of boxes inside atlas.
func ComputeStats(atlas Atlas, boxes []SpriteBox) Stats {
	s := Stats{Sprites: len(boxes), AtlasArea: atlas.Bounds().Area()}
	if len(boxes) == 0 {
		return s
	}
	areas := make([]float64, len(boxes))
	for i, b := range boxes {
		areas[i] = float64(b.Rect().Area())
	}
	total := floats.Sum(areas)
	s.SpriteArea = int(total)
	if s.AtlasArea > 0 {
		s.Fill = total / float64(s.AtlasArea)
	}
	if len(areas) > 1 {
		s.MeanArea, s.StdDevArea = stat.MeanStdDev(areas, nil)
	} else {
		s.MeanArea = areas[0]
	}
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf("%d sprites | atlas %d px² | sprites %d px² | fill %.1f%% | area mean %.1f sd %.1f",
		s.Sprites, s.AtlasArea, s.SpriteArea, s.Fill*100, s.MeanArea, s.StdDevArea)
}
