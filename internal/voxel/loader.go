package voxel

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
)

// LoadConfig controls one scene ingestion.
type LoadConfig struct {
	Depth           int
	ReplicateMask   int
	ReplicateDepth  int
	DownsampleShift int
	Prune           bool
}

// Load reads an ASCII voxel dump from path and builds the octree.
// A missing file is an error; a malformed record mid-file stops ingestion
// and keeps the points read so far.
func Load(path string, cfg LoadConfig) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening voxel file: %w", err)
	}
	defer f.Close()
	return Read(f, cfg)
}

// Read ingests whitespace-separated "x y z hexcolor" records, one voxel
// each, then averages and replicates the tree per the config. The color
// word's byte order is swapped and opaque alpha ORed in. Reading stops at
// the first record short of four fields.
func Read(r io.Reader, cfg LoadConfig) (*Tree, error) {
	tree := New(cfg.Depth)
	tree.Prune = cfg.Prune
	ds := cfg.DownsampleShift

	br := bufio.NewReader(r)
	points := 0
	for {
		if points%(1<<20) == 0 {
			slog.Info("loading voxels", "points", points)
		}
		var x, y, z int
		var word string
		n, err := fmt.Fscan(br, &x, &y, &z, &word)
		if n < 4 {
			if err != nil && err != io.EOF {
				slog.Warn("voxel record truncated", "points", points, "error", err)
			}
			break
		}
		c64, err := strconv.ParseUint(word, 16, 32)
		if err != nil {
			slog.Warn("bad voxel color", "points", points, "value", word)
			break
		}
		c := uint32(c64)
		c = 0xff000000 | (c&0xff)<<16 | c&0xff00 | (c&0xff0000)>>16
		tree.Set(x>>ds, y>>ds, z>>ds, cfg.Depth-ds, c)
		points++
	}
	slog.Info("voxels loaded", "points", points, "nodes", tree.Len())

	tree.Average()
	tree.Replicate(cfg.ReplicateMask, cfg.ReplicateDepth)
	return tree, nil
}
