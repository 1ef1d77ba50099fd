// SPDX-License-Identifier: EPL-2.0

// Package mixer sums the blocks a sound.Queue emits each tick into one
// stereo frame and plays the frames back as a beep.Streamer.
//
// A Mixer is the Sink of a queue: every block is mixed and released as
// soon as it arrives, so the decode-ahead arena never waits on playback.
// The mixed frames wait in a bounded FIFO until the audio device pulls
// them through Stream, or a recorder pulls them through Read.
package mixer
