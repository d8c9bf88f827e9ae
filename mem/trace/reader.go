package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/vmsim/mem/vm/mmu"
)

// ReadPopulation parses the population input and calls fn for each record, in
// input order. Each non-blank line must hold exactly three non-negative
// integers: the virtual address, the physical address, and the value.
func ReadPopulation(r io.Reader, fn func(rec mmu.Record) error) error {
	return forEachLine(r, func(lineNum int, line string) error {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return nil
		}

		rec, err := parseRecord(fields)
		if err != nil {
			return fmt.Errorf("population line %d: %w", lineNum, err)
		}

		err = fn(rec)
		if err != nil {
			return fmt.Errorf("population line %d: %w", lineNum, err)
		}

		return nil
	})
}

func parseRecord(fields []string) (mmu.Record, error) {
	if len(fields) != 3 {
		return mmu.Record{}, fmt.Errorf(
			"expecting 3 integers, got %d fields", len(fields))
	}

	vAddr, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return mmu.Record{}, fmt.Errorf("virtual address: %w", err)
	}

	pAddr, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return mmu.Record{}, fmt.Errorf("physical address: %w", err)
	}

	value, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return mmu.Record{}, fmt.Errorf("value: %w", err)
	}

	if value < 0 {
		return mmu.Record{}, fmt.Errorf("value %d is negative", value)
	}

	return mmu.Record{VAddr: vAddr, PAddr: pAddr, Value: value}, nil
}

// ReadQueries parses the query input and calls fn for each virtual address,
// in input order. A line may hold any number of addresses.
func ReadQueries(r io.Reader, fn func(vAddr uint64) error) error {
	return forEachLine(r, func(lineNum int, line string) error {
		for _, field := range strings.Fields(line) {
			vAddr, err := strconv.ParseUint(field, 10, 64)
			if err != nil {
				return fmt.Errorf("query line %d: %w", lineNum, err)
			}

			err = fn(vAddr)
			if err != nil {
				return fmt.Errorf("query line %d: %w", lineNum, err)
			}
		}

		return nil
	})
}

// forEachLine calls fn with every line of r, numbered from 1. Lines are not
// limited in length.
func forEachLine(r io.Reader, fn func(lineNum int, line string) error) error {
	reader := bufio.NewReader(r)

	for lineNum := 1; ; lineNum++ {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return readErr
		}

		if line != "" {
			err := fn(lineNum, line)
			if err != nil {
				return err
			}
		}

		if readErr == io.EOF {
			return nil
		}
	}
}
