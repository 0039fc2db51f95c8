// Package storage manages the per-task artifact directories on an afero
// filesystem: provisioning, the script transcript, artifact naming, and zip
// packaging of a finished task.
//
// Layout under the root directory:
//
//	<root>/<taskID>/script.txt
//	<root>/<taskID>/audio_<sceneID>.mp3
//	<root>/<taskID>/image_<sceneID>.jpg
//	<root>/<taskID>.zip
package storage
