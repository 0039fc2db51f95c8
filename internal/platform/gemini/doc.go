// Package gemini implements generation.ScriptGenerator on Google's Gemini API.
//
// A text/template prompt (embedded by default, overridable from a file)
// describes the topic, mood and duration targets. The model is asked for a
// JSON object; markdown code fences around it are tolerated and stripped
// before parsing. Safety blocks map to generation.ErrContentBlocked and
// unparseable output to generation.ErrInvalidResponse. Calls are not retried.
package gemini
