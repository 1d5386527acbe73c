// Package loader turns an objdump-style disassembly listing into instruction
// words in RAM.
//
// A listing looks like:
//
//	prog.elf:     file format elf32-littleriscv
//
//	Disassembly of section .text:
//
//	00000000 <_start>:
//	       0:	00500093          	addi	x1, x0, 5
//	       4:	00a00113          	addi	x2, x0, 10
//
// Only lines of the address-colon-word shape carry code; headers, section
// banners and blank lines are skipped by shape rather than by counting
// header lines, which breaks as soon as objdump changes its preamble.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"risculator/mem"
)

var (
	// ErrNoProgram indicates a listing with no instruction lines at all.
	ErrNoProgram = errors.New("loader: no instruction words found")

	// ErrTooBig indicates a program that does not fit in RAM.
	ErrTooBig = errors.New("loader: program exceeds ram capacity")
)

// instLine matches "  <addr>:  <8 hex digits>" at the start of a line. The
// 8-digit word is capture group 1; the listing's own address column is
// ignored, words are always deposited at 0, 4, 8, ...
var instLine = regexp.MustCompile(`^\s*[0-9a-fA-F]+:\s+([0-9a-fA-F]{8})\b`)

// Load reads a disassembly listing and deposits each instruction word into
// ram at consecutive byte addresses starting at 0. Returns the number of
// words loaded.
func Load(r io.Reader, ram *mem.RAM) (int, error) {
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		match := instLine.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}
		word, err := strconv.ParseUint(match[1], 16, 32)
		if err != nil {
			// unreachable given the pattern, but ParseUint returns
			// an error and dropping it would hide regexp edits
			return n, fmt.Errorf("loader: bad hex token %q: %w", match[1], err)
		}
		if n >= ram.Size() {
			return n, fmt.Errorf("%w: %d cells", ErrTooBig, ram.Size())
		}
		ram.WriteIndex(n, int32(n*4), int32(word))
		n++
	}
	if err := scanner.Err(); err != nil {
		return n, fmt.Errorf("loader: %w", err)
	}
	if n == 0 {
		return 0, ErrNoProgram
	}
	return n, nil
}

// LoadFile opens path and calls Load.
func LoadFile(path string, ram *mem.RAM) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("loader: %w", err)
	}
	defer f.Close()
	return Load(f, ram)
}

// LoadWords deposits raw instruction words directly, bypassing the text
// parser. Used by tests and by anything that already has the words.
func LoadWords(words []uint32, ram *mem.RAM) (int, error) {
	if len(words) > ram.Size() {
		return 0, fmt.Errorf("%w: %d cells", ErrTooBig, ram.Size())
	}
	for i, w := range words {
		ram.WriteIndex(i, int32(i*4), int32(w))
	}
	return len(words), nil
}
