package atlaspack

import (
	"encoding/json"
	"fmt"
)

// TexturePacker hash-format JSON, as read by engines that consume
// TexturePacker output. Sprites are never trimmed or rotated here, so the
// source size always equals the frame size.

type tpRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type tpSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type tpFrame struct {
	Frame            tpRect `json:"frame"`
	Rotated          bool   `json:"rotated"`
	Trimmed          bool   `json:"trimmed"`
	SpriteSourceSize tpRect `json:"spriteSourceSize"`
	SourceSize       tpSize `json:"sourceSize"`
}

type tpMeta struct {
	App   string `json:"app,omitempty"`
	Image string `json:"image"`
	Size  tpSize `json:"size"`
}

type tpSheet struct {
	Frames map[string]tpFrame `json:"frames"`
	Meta   tpMeta             `json:"meta"`
}

// MarshalTexturePacker describes the packed boxes in TexturePacker hash
// format, with imageName as the page image.
func MarshalTexturePacker(atlas Atlas, boxes []SpriteBox, imageName string) ([]byte, error) {
	sheet := tpSheet{
		Frames: make(map[string]tpFrame, len(boxes)),
		Meta: tpMeta{
			App:   "atlaspack",
			Image: imageName,
			Size:  tpSize{W: atlas.Width, H: atlas.Height},
		},
	}
	for _, b := range boxes {
		if _, dup := sheet.Frames[b.Name]; dup {
			return nil, spriteErr(b.Name, ErrDuplicateName)
		}
		sheet.Frames[b.Name] = tpFrame{
			Frame:            tpRect{X: b.X, Y: b.Y, W: b.Width, H: b.Height},
			SpriteSourceSize: tpRect{W: b.Width, H: b.Height},
			SourceSize:       tpSize{W: b.Width, H: b.Height},
		}
	}
	data, err := json.MarshalIndent(sheet, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("atlaspack: encode texturepacker json: %w", err)
	}
	return data, nil
}

// ParseTexturePacker reads the frame rectangles of a hash-format
// TexturePacker document, keyed by frame name.
func ParseTexturePacker(data []byte) (map[string]Rect, error) {
	var sheet tpSheet
	if err := json.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("atlaspack: parse texturepacker json: %w", err)
	}
	if sheet.Frames == nil {
		return nil, fmt.Errorf("atlaspack: texturepacker json has no \"frames\" key")
	}
	rects := make(map[string]Rect, len(sheet.Frames))
	for name, f := range sheet.Frames {
		if f.Rotated {
			return nil, fmt.Errorf("atlaspack: frame %q: rotated frames are not supported", name)
		}
		rects[name] = Rect{X: f.Frame.X, Y: f.Frame.Y, Width: f.Frame.W, Height: f.Frame.H}
	}
	return rects, nil
}
