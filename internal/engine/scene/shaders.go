package scene

// Vertex layout per quad corner: pixel offset from the sprite anchor,
// page UV, and the sprite bounding box the offset layer interpolates
// over.
const spriteVertexShader = `
#version 410 core

layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aUV;
layout (location = 2) in vec3 aBBMin;
layout (location = 3) in vec3 aBBMax;

uniform mat4 uViewProj;
uniform vec3 uWorldPos;
uniform float uPixelScale;

out vec2 vUV;
out vec3 vBBMin;
out vec3 vBBMax;

void main() {
	// Height lifts the sprite up the screen by its world Z.
	vec2 screen = uWorldPos.xy + aPos * uPixelScale;
	screen.y -= uWorldPos.z;

	gl_Position = uViewProj * vec4(screen, 0.0, 1.0);
	vUV = aUV;
	vBBMin = uWorldPos + aBBMin;
	vBBMax = uWorldPos + aBBMax;
}
`

const spriteFragmentShader = `
#version 410 core

in vec2 vUV;
in vec3 vBBMin;
in vec3 vBBMax;

uniform sampler2D uDiffuse;
uniform sampler2D uNormal;
uniform sampler2D uOffset;

uniform vec3 uClipMin;
uniform vec3 uClipMax;
uniform vec3 uSunDirection;

uniform vec3 uLightPositions[32];
uniform vec3 uLightColors[32];
uniform float uLightRanges[32];
uniform int uLightCount;

out vec4 FragColor;

void main() {
	vec4 albedo = texture(uDiffuse, vUV);
	if (albedo.a < 0.01) {
		discard;
	}

	// The offset layer places each pixel inside the sprite's world box.
	vec3 world = mix(vBBMin, vBBMax, texture(uOffset, vUV).rgb);
	if (any(lessThan(world, uClipMin)) || any(greaterThan(world, uClipMax))) {
		discard;
	}

	vec3 normal = normalize(texture(uNormal, vUV).rgb * 2.0 - 1.0);
	vec3 light = vec3(0.25) + vec3(0.75) * max(dot(normal, normalize(uSunDirection)), 0.0);

	for (int i = 0; i < uLightCount; i++) {
		vec3 toLight = uLightPositions[i] - world;
		float dist = length(toLight);
		float falloff = max(1.0 - dist / uLightRanges[i], 0.0);
		light += uLightColors[i] * falloff * max(dot(normal, toLight / max(dist, 0.0001)), 0.0);
	}

	FragColor = vec4(albedo.rgb * light, albedo.a);
}
`
