// Package atlaspack packs a directory of sprite images into one atlas image
// plus a name index.
//
// The index is a trie keyed one character per level: each branch is a JSON
// object whose keys are single characters, and each leaf is the array
// [x, y, width, height] of one sprite inside the atlas. A renderer loads the
// atlas once and slices sprites out by name, with no per-sprite file I/O.
//
// # Quick start
//
// [Run] reads a directory, packs it and writes both artifacts:
//
//	cfg := atlaspack.DefaultConfig()
//	cfg.SourceDir = "sprites"
//	cfg.OutDir = "build"
//	cfg.Logf = log.Printf
//	if _, err := atlaspack.Run(ctx, cfg); err != nil {
//		log.Fatal(err)
//	}
//
// The pieces are usable on their own: [Pack] assigns positions to a slice
// of [SpriteBox], [BuildTrie] indexes them by name, and [Composite] copies
// decoded pixels into the atlas image.
//
// # Packing
//
// [Pack] is a greedy free-rectangle packer. Sprites are sorted by longest
// side, then each one is placed at the origin of the newest free region
// that fits it, and the leftover space is split into a right strip and a
// bottom strip, cut along the shorter leftover side. When nothing fits, the
// working sheet grows by one strip sized to the sprite, downward while it is
// wider than the target aspect and rightward otherwise. The returned [Atlas]
// is the tight bounding box of the placed sprites. The same input always
// yields the same layout.
//
// # Errors
//
// Every failure aborts the batch; nothing is written unless both the atlas
// and the index can be. Errors about a single sprite are [*SpriteError]
// values wrapping one of the sentinels such as [ErrDuplicateName] or
// [ErrInvalidDimension].
//
// The ebiten side lives in package render, which loads the two artifacts
// back into a Sheet that hands out sub-images by sprite name.
package atlaspack
