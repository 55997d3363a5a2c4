// nor_tool drives the SPI NOR collaborator over a real host SPI port.
//
// Copyright (c) The H2FMI Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Command nor_tool implements the NOR collaborator's trivial CLI:
//
//	nor_tool read addr length | write addr file | erase addr
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/openiboot/h2fmi/nor"
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: nor_tool read addr length | write addr file | erase addr")
		os.Exit(2)
	}

	op := args[0]
	addr := uint32(parseInt(args[1]))

	if _, err := host.Init(); err != nil {
		log.Fatalf("nor_tool: host init: %v", err)
	}

	port, err := spireg.Open("")
	if err != nil {
		log.Fatalf("nor_tool: open SPI port: %v", err)
	}
	defer port.Close()

	conn, err := port.Connect(1_000_000, spi.Mode3, 8)
	if err != nil {
		log.Fatalf("nor_tool: connect: %v", err)
	}

	dev := nor.New(conn)

	switch op {
	case "read":
		if len(args) != 3 {
			log.Fatalf("nor_tool: read addr length")
		}
		n := parseInt(args[2])
		buf := make([]byte, n)
		if err := dev.Read(addr, buf); err != nil {
			log.Fatalf("nor_tool: %v", err)
		}
		fmt.Printf("%x\n", buf)
	case "write":
		if len(args) != 3 {
			log.Fatalf("nor_tool: write addr file")
		}
		data, err := os.ReadFile(args[2])
		if err != nil {
			log.Fatalf("nor_tool: %v", err)
		}
		if err := dev.Write(addr, data); err != nil {
			log.Fatalf("nor_tool: %v", err)
		}
	case "erase":
		if err := dev.Erase(addr); err != nil {
			log.Fatalf("nor_tool: %v", err)
		}
	default:
		log.Fatalf("nor_tool: unknown op %q", op)
	}
}

func parseInt(s string) int {
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		log.Fatalf("nor_tool: bad integer %q: %v", s, err)
	}
	return int(n)
}
