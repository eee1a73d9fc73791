package models

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/render"
)

// GLTFLoader loads glTF/GLB files into a single Mesh.
type GLTFLoader struct {
	// Options
	CalculateNormals bool         // Generate normals when the file has none
	SmoothNormals    bool         // Average generated normals across faces
	DefaultColor     render.Color // Vertex color when neither COLOR_0 nor a base color is present
	LoadTextures     bool         // Decode the first base-color texture
}

// NewGLTFLoader creates a new glTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
		DefaultColor:     render.RGB(200, 200, 200),
		LoadTextures:     true,
	}
}

// LoadGLTF loads a .gltf or .glb file with default options.
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load reads every triangle primitive of every mesh in the document into
// one Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path), 0, 0)
	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	if l.CalculateNormals && !mesh.HasNormals() {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}

	if l.LoadTextures {
		img, err := firstBaseColorImage(doc, filepath.Dir(path))
		if err != nil {
			return nil, err
		}
		if img != nil {
			mesh.Texture = render.TextureFromImage(img)
		}
	}

	render.Logger().Info("gltf loaded", "path", path,
		"vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount(),
		"textured", mesh.Texture != nil)
	return mesh, nil
}

// processMesh appends the geometry of every triangle primitive of m.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			// Skip non-triangle primitives (lines, points, strips)
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs [][2]float32
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		var colors [][4]uint8
		if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
			if colors, err = modeler.ReadColor(doc, doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("read colors: %w", err)
			}
		}

		base := l.baseColor(doc, prim)
		baseVertex := len(mesh.Vertices)
		for i, p := range positions {
			v := render.Vertex{
				Position:  math3d.Point(p[0], p[1], p[2]),
				Color:     base,
				Intensity: 1,
			}
			if i < len(normals) {
				n := normals[i]
				v.Normal = math3d.Direction(n[0], n[1], n[2])
			}
			if i < len(uvs) {
				// glTF puts v=0 at the top of the image, like Texture.
				v.U, v.V = uvs[i][0], uvs[i][1]
			}
			if i < len(colors) {
				c := colors[i]
				v.Color = render.Color{R: c[0], G: c[1], B: c[2], A: c[3]}.Modulate(base)
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		if prim.Indices != nil {
			indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				mesh.AddTriangle(
					baseVertex+int(indices[i]),
					baseVertex+int(indices[i+1]),
					baseVertex+int(indices[i+2]),
				)
			}
		} else {
			// No indices, assume sequential triangles
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.AddTriangle(baseVertex+i, baseVertex+i+1, baseVertex+i+2)
			}
		}
	}
	return nil
}

// baseColor returns the primitive's material base-color factor, or the
// loader default.
func (l *GLTFLoader) baseColor(doc *gltf.Document, prim *gltf.Primitive) render.Color {
	if prim.Material == nil || *prim.Material >= len(doc.Materials) {
		return l.DefaultColor
	}
	pbr := doc.Materials[*prim.Material].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorFactor == nil {
		return l.DefaultColor
	}
	f := pbr.BaseColorFactor
	return render.Color{
		R: unitToByte(f[0]),
		G: unitToByte(f[1]),
		B: unitToByte(f[2]),
		A: unitToByte(f[3]),
	}
}

func unitToByte(f float64) uint8 {
	return uint8(max(0, min(f, 1))*255 + 0.5)
}

// firstBaseColorImage decodes the image behind the first material with a
// base-color texture. It returns nil when there is none.
func firstBaseColorImage(doc *gltf.Document, dir string) (image.Image, error) {
	for _, mat := range doc.Materials {
		pbr := mat.PBRMetallicRoughness
		if pbr == nil || pbr.BaseColorTexture == nil {
			continue
		}
		idx := pbr.BaseColorTexture.Index
		if idx >= len(doc.Textures) || doc.Textures[idx].Source == nil {
			continue
		}
		src := *doc.Textures[idx].Source
		if src >= len(doc.Images) {
			continue
		}
		data, err := imageData(doc, doc.Images[src], dir)
		if err != nil {
			return nil, fmt.Errorf("texture %d: %w", idx, err)
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode texture %d: %w", idx, err)
		}
		return img, nil
	}
	return nil, nil
}

// imageData returns the encoded bytes of img from a buffer view, a data
// URI or a file next to the document.
func imageData(doc *gltf.Document, img *gltf.Image, dir string) ([]byte, error) {
	switch {
	case img.BufferView != nil:
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		end := bv.ByteOffset + bv.ByteLength
		if end > len(buf.Data) {
			return nil, fmt.Errorf("image buffer view exceeds buffer (%d > %d)", end, len(buf.Data))
		}
		return buf.Data[bv.ByteOffset:end], nil
	case img.IsEmbeddedResource():
		return img.MarshalData()
	case img.URI != "":
		return os.ReadFile(filepath.Join(dir, img.URI))
	}
	return nil, fmt.Errorf("image %q has no data", img.Name)
}
