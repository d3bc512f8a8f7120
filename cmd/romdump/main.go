// Copyright 2024 The romscan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	rom "github.com/open-ecu/romscan"
)

func prettyPrint(buf []byte) string {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buf, "", "\t"); err != nil {
		log.Println("JSON parse error: ", err)
		return string(buf)
	}
	return pretty.String()
}

func dumpROM(path string, force bool) {
	img, err := rom.NewImage(path)
	if err != nil {
		log.Printf("error opening %s: %s", path, err)
		return
	}
	defer img.Close()

	a := rom.NewAnalyzer(&rom.AnalyzeOptions{Force: rom.Bool(force)})
	rf, err := a.Analyze(img, nil)
	if err != nil {
		log.Printf("error analyzing %s: %s", path, err)
		return
	}

	out, err := json.Marshal(rf)
	if err != nil {
		log.Printf("error marshaling result: %s", err)
		return
	}
	fmt.Println(prettyPrint(out))
}

func main() {
	var force bool

	rootCmd := &cobra.Command{
		Use:   "romdump",
		Short: "Analyzes an ECU ROM image",
		Long:  "Runs the ROM analyzer over an image and prints the result as JSON. No FidType catalog is supplied, so a located FID struct ends the analysis as an unknown FID type, before the RAMF/IVT2/ECUREC and checksum stages",
	}

	dumpCmd := &cobra.Command{
		Use:   "dump [path]",
		Short: "Dumps the analysis of a single ROM image",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			dumpROM(args[0], force)
		},
	}
	dumpCmd.Flags().BoolVarP(&force, "force", "f", false, "skip the image size bounds check")

	rootCmd.AddCommand(dumpCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
