package loaders

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dusk-path/pathtracer/pkg/core"
	"github.com/dusk-path/pathtracer/pkg/geometry"
	"github.com/dusk-path/pathtracer/pkg/material"
	"github.com/dusk-path/pathtracer/pkg/scene"
	"github.com/pkg/errors"
)

// illumToKind maps an MTL "illum" model to a material kind, per the
// conventional illumination-model table: 0-2 are non-reflective/diffuse-only
// shading models, 3,5,8 add mirror-like reflection, and 4,6,7,9 involve
// transparency/refraction.
func illumToKind(illum int) material.Kind {
	switch illum {
	case 0, 1, 2:
		return material.Diffuse
	case 3, 5, 8:
		return material.Specular
	case 4, 6, 7, 9:
		return material.Dielectric
	default:
		return material.Diffuse
	}
}

// LoadOBJ parses a Wavefront OBJ file (and its referenced MTL library, if
// any) into the given scene, adding one triangle primitive per triangle of
// each face and one material per distinct "usemtl" name encountered (faces
// that precede any "usemtl" share a default gray diffuse material). Faces are
// triangulated by a triangle fan, which is exact for the convex/planar faces
// OBJ exporters emit.
func LoadOBJ(s *scene.Scene, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open obj %s", path)
	}
	defer file.Close()

	dir := filepath.Dir(path)

	var positions []core.Vec3
	var normals []core.Vec3
	var uvs []core.Vec2

	mtlMaterials := map[string]material.Material{}
	materialIndex := map[string]int32{}
	currentMaterial := int32(-1)

	ensureMaterial := func(name string) int32 {
		if idx, ok := materialIndex[name]; ok {
			return idx
		}
		mat, ok := mtlMaterials[name]
		if !ok {
			mat = material.Material{Kind: material.Diffuse, Albedo: core.NewVec3(0.8, 0.8, 0.8), Texture: material.NoTexture}
		}
		idx := s.AddMaterial(mat)
		materialIndex[name] = idx
		return idx
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			positions = append(positions, parseVec3(fields[1:]))
		case "vn":
			normals = append(normals, parseVec3(fields[1:]))
		case "vt":
			uvs = append(uvs, parseVec2(fields[1:]))
		case "mtllib":
			libPath := filepath.Join(dir, fields[1])
			parsed, err := parseMTL(s, libPath)
			if err != nil {
				return errors.Wrapf(err, "load mtllib referenced by %s", path)
			}
			for name, mat := range parsed {
				mtlMaterials[name] = mat
			}
		case "usemtl":
			currentMaterial = ensureMaterial(fields[1])
		case "f":
			verts := make([]objVertex, len(fields)-1)
			for i, token := range fields[1:] {
				verts[i] = parseFaceVertex(token)
			}
			if currentMaterial < 0 {
				currentMaterial = ensureMaterial("")
			}
			for i := 1; i+1 < len(verts); i++ {
				tri := buildTriangle(positions, normals, uvs, verts[0], verts[i], verts[i+1])
				s.AddPrimitive(geometry.NewTrianglePrimitive(tri, currentMaterial, 0))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan obj %s", path)
	}
	return nil
}

type objVertex struct {
	position, uv, normal int
}

// parseFaceVertex parses a "v", "v/vt", "v//vn", or "v/vt/vn" face token.
// OBJ indices are 1-based; 0 marks an absent component here.
func parseFaceVertex(token string) objVertex {
	parts := strings.Split(token, "/")
	v := objVertex{}
	v.position = parseIndex(parts[0])
	if len(parts) > 1 {
		v.uv = parseIndex(parts[1])
	}
	if len(parts) > 2 {
		v.normal = parseIndex(parts[2])
	}
	return v
}

func parseIndex(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func buildTriangle(positions, normals []core.Vec3, uvs []core.Vec2, a, b, c objVertex) geometry.Triangle {
	tri := geometry.Triangle{
		V0: resolveVec3(positions, a.position),
		V1: resolveVec3(positions, b.position),
		V2: resolveVec3(positions, c.position),
	}
	if a.normal != 0 && b.normal != 0 && c.normal != 0 {
		tri.N0 = resolveVec3(normals, a.normal)
		tri.N1 = resolveVec3(normals, b.normal)
		tri.N2 = resolveVec3(normals, c.normal)
		tri.HasNormals = true
	}
	if a.uv != 0 {
		tri.UV0 = resolveVec2(uvs, a.uv)
	}
	if b.uv != 0 {
		tri.UV1 = resolveVec2(uvs, b.uv)
	}
	if c.uv != 0 {
		tri.UV2 = resolveVec2(uvs, c.uv)
	}
	return tri
}

func resolveVec3(values []core.Vec3, index int) core.Vec3 {
	if index == 0 {
		return core.Vec3{}
	}
	if index > 0 {
		return values[index-1]
	}
	return values[len(values)+index]
}

func resolveVec2(values []core.Vec2, index int) core.Vec2 {
	if index == 0 {
		return core.Vec2{}
	}
	if index > 0 {
		return values[index-1]
	}
	return values[len(values)+index]
}

func parseVec3(fields []string) core.Vec3 {
	x, y, z := parseFloat(fields, 0), parseFloat(fields, 1), parseFloat(fields, 2)
	return core.NewVec3(x, y, z)
}

func parseVec2(fields []string) core.Vec2 {
	return core.Vec2{X: parseFloat(fields, 0), Y: parseFloat(fields, 1)}
}

func parseFloat(fields []string, index int) float64 {
	if index >= len(fields) {
		return 0
	}
	f, err := strconv.ParseFloat(fields[index], 64)
	if err != nil {
		return 0
	}
	return f
}

// parseMTL parses a Wavefront MTL library into a name -> material.Material
// map. Textures referenced by map_Kd are resolved relative to the MTL
// file's directory, decoded eagerly, and registered on s so the returned
// materials can reference them by index.
func parseMTL(s *scene.Scene, path string) (map[string]material.Material, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open mtllib %s", path)
	}
	defer file.Close()

	dir := filepath.Dir(path)
	result := map[string]material.Material{}
	var name string
	current := material.Material{Kind: material.Diffuse, Texture: material.NoTexture}

	flush := func() {
		if name != "" {
			result[name] = current
		}
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "newmtl":
			flush()
			name = fields[1]
			current = material.Material{Kind: material.Diffuse, Texture: material.NoTexture}
		case "Kd":
			current.Albedo = parseVec3(fields[1:])
		case "Ke":
			current.Emission = parseVec3(fields[1:])
		case "Ni":
			current.IOR = parseFloat(fields[1:], 0)
		case "Ns":
			shininess := parseFloat(fields[1:], 0)
			current.Roughness = shininessToRoughness(shininess)
		case "Pr":
			current.Roughness = parseFloat(fields[1:], 0)
		case "Pm":
			current.Metallic = parseFloat(fields[1:], 0)
		case "illum":
			illum, err := strconv.Atoi(fields[1])
			if err == nil {
				current.Kind = illumToKind(illum)
			}
		case "map_Kd":
			texturePath := filepath.Join(dir, fields[len(fields)-1])
			tex, err := LoadTexture(texturePath)
			if err != nil {
				return nil, errors.Wrapf(err, "load map_Kd for material %s", name)
			}
			current.Texture = s.AddTexture(tex)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "scan mtllib %s", path)
	}
	flush()
	return result, nil
}

// shininessToRoughness converts a Phong specular exponent (Ns, typically
// 0-1000) to an approximate GGX roughness in [0,1].
func shininessToRoughness(shininess float64) float64 {
	if shininess <= 0 {
		return 1
	}
	r := 1.0 / (1.0 + shininess/64.0)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
