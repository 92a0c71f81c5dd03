// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader transforms position/color vertices by the Constants block.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader outputs vertex color or a flat mode color.
//
//go:embed mesh.frag
var MeshFragmentShader string

// Entry point names passed to the device.
const (
	VertexEntry   = "VSMain"
	FragmentEntry = "PSMain"
)
