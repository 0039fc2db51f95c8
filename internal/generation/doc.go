// Package generation defines the ports between the kit pipeline and the
// external services that produce its content: an LLM that writes the script,
// a speech synthesizer that voices each scene, and an image service that
// illustrates it. Implementations live under internal/platform.
package generation
