// SPDX-License-Identifier: EPL-2.0

// Package sndsub is the sound layer of an adventure game engine: a queue
// of the sounds audible in a scene, a decode-ahead cache for them, and a
// subtitle synchronizer that shows the line of whoever is speaking.
//
// # Packages
//
//   - sound: the Queue. Play, Remove and IsBuffered are what scripts call;
//     Run ticks the queue and delivers "sound ended" notifications.
//   - formats/snd: the game's nibble-compressed sound resources.
//   - formats/sbe: subtitle tracks.
//   - formats/wav, formats/aiff, formats/mp3, formats/vorbis: other
//     resources, converted to the engine rate on the fly.
//   - mixer: a Sink that mixes each tick and plays it through beep.
//   - dialogue: loudness classes and stock-line pickers for scripts.
//
// # Quick Start
//
//	cfg := sound.LoadConfig()
//	m, _ := mixer.New(mixer.DefaultConfig())
//	q, _ := sound.New(sound.NewLoader(os.DirFS("SOUNDS"), nil, cfg), m, overlay, cfg)
//	go q.Run(ctx)
//
//	q.Play("LIBRARIAN", "LIB012", sound.ClassDialogue, 0)
//
// This package itself only holds conversions used by tooling: Decode any
// supported file, flatten it with ToStereo16, or re-encode it as SND with
// ConvertToSND.
package sndsub
