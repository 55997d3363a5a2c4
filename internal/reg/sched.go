// H2FMI NAND flash media controller driver
//
// Copyright (c) The H2FMI Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package reg

import "runtime"

// runtimeGosched yields the processor to other goroutines while a register
// poll loop spins, mirroring the cooperative task_yield() of the original
// firmware's poll loops.
func runtimeGosched() {
	runtime.Gosched()
}
