// vfl_read exercises the VFL-facing single-page read.
//
// Copyright (c) The H2FMI Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Command vfl_read calls vfl.Device.ReadSinglePage, mirroring openiboot's
// cmd_vfl_read argument shape:
//
//	vfl_read page data meta empty_ok refresh
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/openiboot/h2fmi/h2fmi"
	"github.com/openiboot/h2fmi/internal/reg"
	"github.com/openiboot/h2fmi/vfl"
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	args := flag.Args()
	if len(args) != 5 {
		fmt.Fprintln(os.Stderr, "usage: vfl_read page data meta empty_ok refresh")
		os.Exit(2)
	}

	page := parseInt(args[0])
	dataLen := parseInt(args[1])
	metaLen := parseInt(args[2])
	emptyOK := parseInt(args[3]) != 0
	// refresh (args[4]) selects whether a marginal read should trigger a
	// block refresh in the full VFL; this package implements no VFL logic
	// (spec.md §1 Non-goals), so it is accepted for shape compatibility and
	// otherwise unused.

	bus0 := &h2fmi.Bus{Num: 0, Space: reg.NewMem(0x1000)}
	bus1 := &h2fmi.Bus{Num: 1, Space: reg.NewMem(0x1000)}

	ctrl := h2fmi.NewController(bus0, bus1, nil, nil)
	if err := ctrl.Identify(); err != nil {
		log.Fatalf("vfl_read: identify: %v", err)
	}

	dev, err := vfl.New(h2fmi.NewDevice(ctrl))
	if err != nil {
		log.Fatalf("vfl_read: %v", err)
	}

	data := make([]byte, dataLen)
	meta := make([]byte, metaLen)

	block := page / dev.PagesPerBlock()
	offset := page % dev.PagesPerBlock()

	if err := dev.ReadSinglePage(0, block, offset, data, meta, emptyOK); err != nil {
		log.Fatalf("vfl_read: %v", err)
	}

	fmt.Printf("OK data=%x meta=%x\n", data, meta)
}

func parseInt(s string) int {
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		log.Fatalf("vfl_read: bad integer %q: %v", s, err)
	}
	return int(n)
}
