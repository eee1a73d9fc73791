package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/render"
)

// ErrMalformedOBJ is returned for OBJ statements that cannot be parsed.
var ErrMalformedOBJ = errors.New("malformed obj")

// objCorner holds the 1-based position, uv and normal references of one
// face corner. Zero means absent.
type objCorner [3]int

// LoadOBJ loads a Wavefront .obj file. Only geometry statements (v, vt, vn
// and f) are read; materials are ignored and vertices are white.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse obj %s: %w", path, err)
	}
	render.Logger().Info("obj loaded", "path", path,
		"vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount())
	return mesh, nil
}

// ParseOBJ reads OBJ geometry from r. Each distinct v/vt/vn combination
// becomes one vertex. Polygons are split into triangle fans. When the file
// has no normals, smooth normals are computed.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	var (
		positions []math3d.Vec3
		uvs       [][2]float32
		normals   []math3d.Vec3
	)
	mesh := NewMesh(name, 0, 0)
	seen := make(map[objCorner]int)
	hasNormals := false

	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", line, err)
			}
			positions = append(positions, math3d.V3(p[0], p[1], p[2]))
		case "vt":
			t, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: texcoord: %w", line, err)
			}
			uvs = append(uvs, [2]float32{t[0], t[1]})
		case "vn":
			n, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", line, err)
			}
			normals = append(normals, math3d.V3(n[0], n[1], n[2]))
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs 3 corners, got %d: %w", line, len(fields)-1, ErrMalformedOBJ)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, s := range fields[1:] {
				c, err := parseCorner(s, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: face corner %q: %w", line, s, err)
				}
				i, ok := seen[c]
				if !ok {
					v := render.Vertex{
						Position:  positions[c[0]-1].Point(),
						Color:     render.ColorWhite,
						Intensity: 1,
					}
					if c[1] > 0 {
						// OBJ puts v=0 at the bottom of the image.
						v.U, v.V = uvs[c[1]-1][0], 1-uvs[c[1]-1][1]
					}
					if c[2] > 0 {
						n := normals[c[2]-1]
						v.Normal = math3d.Direction(n.X, n.Y, n.Z)
						hasNormals = true
					}
					i = mesh.AddVertex(v)
					seen[c] = i
				}
				idx = append(idx, i)
			}
			for k := 1; k+1 < len(idx); k++ {
				mesh.AddTriangle(idx[0], idx[k], idx[k+1])
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}
	if mesh.TriangleCount() == 0 {
		return nil, fmt.Errorf("no faces: %w", ErrMalformedOBJ)
	}

	if !hasNormals {
		mesh.CalculateSmoothNormals()
	}
	return mesh, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d values, got %d: %w", n, len(fields), ErrMalformedOBJ)
	}
	out := make([]float32, n)
	for i := range n {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseCorner parses "v", "v/vt", "v//vn" or "v/vt/vn". Negative
// references count back from the last element defined so far.
func parseCorner(s string, np, nt, nn int) (objCorner, error) {
	var c objCorner
	parts := strings.Split(s, "/")
	if len(parts) > 3 || parts[0] == "" {
		return c, ErrMalformedOBJ
	}
	counts := [3]int{np, nt, nn}
	for i, p := range parts {
		if p == "" {
			continue
		}
		ref, err := strconv.Atoi(p)
		if err != nil {
			return c, err
		}
		if ref < 0 {
			ref += counts[i] + 1
		}
		if ref < 1 || ref > counts[i] {
			return c, fmt.Errorf("reference %d of %d: %w", ref, counts[i], ErrIndexOutOfRange)
		}
		c[i] = ref
	}
	return c, nil
}
