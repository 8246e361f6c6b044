package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dusk-path/pathtracer/pkg/geometry"
	"github.com/dusk-path/pathtracer/pkg/material"
	"github.com/dusk-path/pathtracer/pkg/scene"
)

func writeTempFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write temp file %s: %v", path, err)
	}
	return path
}

func TestLoadOBJSingleTriangle(t *testing.T) {
	dir := t.TempDir()
	objPath := writeTempFile(t, dir, "tri.obj", `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`)

	s := scene.New()
	if err := LoadOBJ(s, objPath); err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if len(s.Primitives) != 1 {
		t.Fatalf("expected 1 primitive, got %d", len(s.Primitives))
	}
	prim := s.Primitives[0]
	if prim.Kind != geometry.PrimitiveTriangle {
		t.Fatalf("expected a triangle primitive, got kind %v", prim.Kind)
	}
	if prim.Triangle.HasNormals {
		t.Error("expected no normals when the OBJ supplies none")
	}
}

func TestLoadOBJQuadTriangulatesAsFan(t *testing.T) {
	dir := t.TempDir()
	objPath := writeTempFile(t, dir, "quad.obj", `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`)

	s := scene.New()
	if err := LoadOBJ(s, objPath); err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if len(s.Primitives) != 2 {
		t.Fatalf("expected a quad to triangulate into 2 triangles, got %d", len(s.Primitives))
	}
}

func TestLoadOBJWithNormalsAndUVs(t *testing.T) {
	dir := t.TempDir()
	objPath := writeTempFile(t, dir, "tri.obj", `
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vn 0 0 1
vn 0 0 1
vn 0 0 1
f 1/1/1 2/2/2 3/3/3
`)

	s := scene.New()
	if err := LoadOBJ(s, objPath); err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	tri := s.Primitives[0].Triangle
	if !tri.HasNormals {
		t.Fatal("expected normals to be attached")
	}
	if tri.N0.Z != 1 {
		t.Errorf("expected normal z=1, got %v", tri.N0)
	}
	if tri.UV1.X != 1 {
		t.Errorf("expected second UV x=1, got %v", tri.UV1)
	}
}

func TestLoadOBJWithMTLAssignsMaterial(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "scene.mtl", `
newmtl glass
illum 4
Ni 1.5
Kd 1 1 1

newmtl chrome
illum 3
Pr 0.05
`)
	objPath := writeTempFile(t, dir, "scene.obj", `
mtllib scene.mtl
v 0 0 0
v 1 0 0
v 0 1 0
usemtl glass
f 1 2 3
v 2 0 0
v 3 0 0
v 2 1 0
usemtl chrome
f 4 5 6
`)

	s := scene.New()
	if err := LoadOBJ(s, objPath); err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if len(s.Materials) != 2 {
		t.Fatalf("expected 2 materials, got %d", len(s.Materials))
	}
	glass := s.Materials[s.Primitives[0].Material]
	if glass.Kind != material.Dielectric {
		t.Errorf("expected illum 4 to map to Dielectric, got %v", glass.Kind)
	}
	if glass.IOR != 1.5 {
		t.Errorf("expected IOR 1.5, got %v", glass.IOR)
	}
	chrome := s.Materials[s.Primitives[1].Material]
	if chrome.Kind != material.Specular {
		t.Errorf("expected illum 3 to map to Specular, got %v", chrome.Kind)
	}
}

func TestIllumToKindMapping(t *testing.T) {
	cases := map[int]material.Kind{
		0: material.Diffuse, 1: material.Diffuse, 2: material.Diffuse,
		3: material.Specular, 5: material.Specular, 8: material.Specular,
		4: material.Dielectric, 6: material.Dielectric, 7: material.Dielectric, 9: material.Dielectric,
		42: material.Diffuse,
	}
	for illum, want := range cases {
		if got := illumToKind(illum); got != want {
			t.Errorf("illumToKind(%d) = %v, want %v", illum, got, want)
		}
	}
}

func TestShininessToRoughnessBounds(t *testing.T) {
	if r := shininessToRoughness(0); r != 1 {
		t.Errorf("expected roughness 1 at shininess 0, got %v", r)
	}
	r := shininessToRoughness(1000)
	if r <= 0 || r >= 1 {
		t.Errorf("expected roughness strictly between 0 and 1 for high shininess, got %v", r)
	}
	if shininessToRoughness(64) <= r {
		t.Error("expected lower shininess to produce higher roughness")
	}
}
