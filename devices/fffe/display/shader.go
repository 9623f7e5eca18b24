package display

const vertex = `
#version 420

in  vec3 vertPos;
in  vec2 vertTexCoord;
out vec2 fragTexCoord;

void main() {
    fragTexCoord = vertTexCoord;
    gl_Position  = vec4(vertPos, 1);
}

`
const fragment = `
#version 420

uniform vec4  foreground;
uniform vec4  background;
uniform vec4  overlay;
uniform vec2  scroll;
uniform float paused;

layout (binding = 0) uniform sampler2D pixels;

in  vec2 fragTexCoord;
out vec4 outputColor;

void main() {
    // Scrolled in areas stay dark. The texture border is black.
    float lit = texture(pixels, fragTexCoord - scroll).r;
    vec4 color = mix(background, foreground, lit);

    // Dim the image and lay diagonal stripes over it while paused.
    float stripe = step(0.5, fract((gl_FragCoord.x + gl_FragCoord.y) / 32.0));
    outputColor = mix(color, overlay, paused * (0.4 + 0.2 * stripe));
}
`
