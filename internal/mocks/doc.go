// Package mocks provides shared mock implementations of the generation
// collaborators for tests that wire a whole pipeline.
//
// Each mock records its calls and either returns configured defaults or
// delegates to a function field:
//
//	scripts := mocks.NewMockScriptGenerator(script)
//	audio := mocks.NewMockAudioGenerator(fs)
//	audio.GenerateAudioFn = func(ctx context.Context, text, path, voice string) (string, error) {
//	    return "", generation.ErrSynthesisFailed
//	}
package mocks
