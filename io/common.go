// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package io provides the PWM, analog, servo and ADC outputs and inputs
// used by the instrument, via the Linux sysfs interfaces. GPIO pins
// are provided by github.com/aamcrae/gpio.

package io

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// Setter is an output that can be set high (1) or low (0).
type Setter interface {
	Set(int) error
}

const verifyTimeout = 2 * time.Second

// Verify waits for exported sysfs files to become writable. When not
// running as root, udev changes the group permissions of the exported
// files some time after the export.
var Verify = false

func init() {
	if u, err := user.Current(); err == nil && u.Uid != "0" {
		Verify = true
	}
}

// export writes unit to the export file unless f is already accessible.
func export(f, expfile string, unit int) error {
	if unix.Access(f, unix.W_OK|unix.R_OK) == nil {
		return nil
	}
	if err := writeFile(expfile, strconv.Itoa(unit)); err != nil {
		return err
	}
	if Verify {
		return verifyFile(f)
	}
	return nil
}

func unexport(f string, unit int) error {
	return writeFile(f, strconv.Itoa(unit))
}

func writeFile(name, s string) error {
	f, err := os.OpenFile(name, os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(s)
	return err
}

// readFloat reads a single numeric value from a sysfs attribute.
func readFloat(name string) (float64, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", name, err)
	}
	return v, nil
}

// verifyFile polls until f is writable.
func verifyFile(f string) error {
	deadline := time.Now().Add(verifyTimeout)
	for time.Now().Before(deadline) {
		if unix.Access(f, unix.W_OK) == nil {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
	return fmt.Errorf("%s: not writable", f)
}
