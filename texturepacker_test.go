package atlaspack

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestMarshalTexturePacker(t *testing.T) {
	boxes := []SpriteBox{
		{Name: "hero", Width: 64, Height: 64},
		{Name: "enemy", Width: 32, Height: 48, X: 64},
	}
	data, err := MarshalTexturePacker(Atlas{Width: 96, Height: 64}, boxes, "out.png")
	if err != nil {
		t.Fatalf("MarshalTexturePacker: %v", err)
	}

	var doc struct {
		Frames map[string]struct {
			Frame struct{ X, Y, W, H int } `json:"frame"`
			Rotated    bool                `json:"rotated"`
			Trimmed    bool                `json:"trimmed"`
			SourceSize struct{ W, H int }  `json:"sourceSize"`
		} `json:"frames"`
		Meta struct {
			Image string            `json:"image"`
			Size  struct{ W, H int } `json:"size"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if doc.Meta.Image != "out.png" || doc.Meta.Size.W != 96 || doc.Meta.Size.H != 64 {
		t.Errorf("meta = %+v", doc.Meta)
	}
	enemy, ok := doc.Frames["enemy"]
	if !ok {
		t.Fatal("enemy frame missing")
	}
	if enemy.Frame.X != 64 || enemy.Frame.W != 32 || enemy.Frame.H != 48 {
		t.Errorf("enemy frame = %+v", enemy.Frame)
	}
	if enemy.Rotated || enemy.Trimmed || enemy.SourceSize.W != 32 || enemy.SourceSize.H != 48 {
		t.Errorf("enemy = %+v", enemy)
	}
}

func TestTexturePacker_RoundTrip(t *testing.T) {
	boxes := randomBoxes(11, 30, 20)
	atlas, err := Pack(boxes, PackOptions{})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	data, err := MarshalTexturePacker(atlas, boxes, "out.png")
	if err != nil {
		t.Fatalf("MarshalTexturePacker: %v", err)
	}
	rects, err := ParseTexturePacker(data)
	if err != nil {
		t.Fatalf("ParseTexturePacker: %v", err)
	}
	if len(rects) != len(boxes) {
		t.Fatalf("got %d frames, want %d", len(rects), len(boxes))
	}
	for _, b := range boxes {
		if rects[b.Name] != b.Rect() {
			t.Errorf("%q = %v, want %v", b.Name, rects[b.Name], b.Rect())
		}
	}
}

func TestMarshalTexturePacker_Duplicate(t *testing.T) {
	boxes := []SpriteBox{{Name: "a", Width: 1, Height: 1}, {Name: "a", Width: 1, Height: 1}}
	if _, err := MarshalTexturePacker(Atlas{Width: 1, Height: 1}, boxes, "x.png"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("err = %v, want ErrDuplicateName", err)
	}
}

func TestParseTexturePacker_Invalid(t *testing.T) {
	for _, data := range []string{
		`{`,
		`{"meta":{}}`,
		`{"frames":{"r":{"frame":{"x":0,"y":0,"w":2,"h":3},"rotated":true}}}`,
	} {
		if _, err := ParseTexturePacker([]byte(data)); err == nil {
			t.Errorf("ParseTexturePacker(%s) succeeded, want error", data)
		}
	}
}
