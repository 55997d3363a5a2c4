// H2FMI NAND flash media controller driver
//
// Copyright (c) The H2FMI Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package h2fmi

// driverError is a plain string error, used for conditions that are
// programmer errors (mismatched arguments) rather than NAND/hardware
// conditions, which are reported as status codes per §7.
type driverError string

func (e driverError) Error() string { return string(e) }

func newDriverError(msg string) error { return driverError(msg) }
