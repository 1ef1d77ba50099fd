// SPDX-License-Identifier: EPL-2.0

package sbe_test

import (
	"fmt"

	"github.com/ik5/sndsub/formats/sbe"
)

func ExampleParse() {
	tr, err := sbe.Parse([]byte("# LIB012\n0 45 Excuse me.\n50 90 Over here!\n"))
	if err != nil {
		fmt.Println(err)
		return
	}

	cur := sbe.NewCursor(tr)
	for _, tick := range []int{10, 48, 60} {
		if cue, ok := cur.Seek(tick); ok {
			fmt.Printf("%3d: %s\n", tick, cue.Text)
		} else {
			fmt.Printf("%3d: -\n", tick)
		}
	}
	// Output:
	//  10: Excuse me.
	//  48: -
	//  60: Over here!
}
