// Package domain contains the core entities of the content factory: generation
// tasks and their forward-only status machine, generated scripts and scenes, and
// the duration categories that steer script length. It has no dependencies on
// infrastructure or delivery mechanisms.
package domain
