// H2FMI NAND flash media controller driver
//
// Copyright (c) The H2FMI Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package h2fmi implements a driver for the H2FMI flash memory interface
// found on the Apple S5L8920 family of embedded ARM SoCs. It identifies the
// NAND dies attached to the controller's two FMI buses, derives their
// geometry and timing, and exposes a page-granularity read path with inline
// AES and ECC reporting to a higher Virtual Flash Layer.
//
// Program/erase, bad-block management, wear levelling and PPN NAND variants
// are out of scope; see vfl and nor for the adjacent external collaborators.
package h2fmi
