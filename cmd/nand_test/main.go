// nand_test exercises C7's public single-page read directly.
//
// Copyright (c) The H2FMI Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Command nand_test calls h2fmi's single-page read and prints the result in
// hex, mirroring openiboot's cmd_nand_test argument shape:
//
//	nand_test ce page data meta b1 b2 flag
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/openiboot/h2fmi/h2fmi"
	"github.com/openiboot/h2fmi/internal/reg"
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	args := flag.Args()
	if len(args) != 7 {
		fmt.Fprintln(os.Stderr, "usage: nand_test ce page data meta b1 b2 flag")
		os.Exit(2)
	}

	ce := parseInt(args[0])
	page := uint32(parseInt(args[1]))
	dataLen := parseInt(args[2])
	metaLen := parseInt(args[3])
	// args[4], args[5] (b1, b2) are accepted for command-shape compatibility
	// and unused: the original's equivalents are scratch buffer sizes this
	// driver derives from geometry instead of taking as input.
	flagVal := parseInt(args[6])

	bus0 := &h2fmi.Bus{Num: 0, Space: reg.NewMem(0x1000)}
	bus1 := &h2fmi.Bus{Num: 1, Space: reg.NewMem(0x1000)}

	ctrl := h2fmi.NewController(bus0, bus1, nil, nil)
	if err := ctrl.Identify(); err != nil {
		log.Fatalf("nand_test: identify: %v", err)
	}

	data := make([]byte, dataLen)
	meta := make([]byte, metaLen)

	disableEncryption := flagVal != 0
	err := ctrl.ReadSinglePage(ce, page, data, meta, disableEncryption)

	switch err {
	case nil:
		fmt.Printf("OK data=%x meta=%x\n", data, meta)
	case h2fmi.ErrNotFound:
		fmt.Println("NOT_FOUND")
	case h2fmi.ErrRetry:
		fmt.Println("RETRY")
	default:
		fmt.Printf("ERROR %v\n", err)
	}
}

func parseInt(s string) int {
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		log.Fatalf("nand_test: bad integer %q: %v", s, err)
	}
	return int(n)
}
