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

package io

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	pwmBaseDir      = "/sys/class/pwm/pwmchip0/"
	pwmExportFile   = pwmBaseDir + "export"
	pwmUnexportFile = pwmBaseDir + "unexport"
	periodFile      = "/period"
	dutyFile        = "/duty_cycle"
	enableFile      = "/enable"
)

// PWM is a pulse width modulated output.
// duty is the fraction of the period that the output is high, 0.0 to 1.0.
type PWM interface {
	Close()
	Set(period time.Duration, duty float64) error
}

// HwPwm is a PWM unit of the SoC, accessed via sysfs.
type HwPwm struct {
	unit   int
	base   string
	pFile  *os.File
	dFile  *os.File
	period int64
	duty   int64
}

// NewHwPWM creates a new hardware PWM controller.
func NewHwPWM(unit int) (*HwPwm, error) {
	p := new(HwPwm)
	p.unit = unit
	p.base = fmt.Sprintf("%spwm%d", pwmBaseDir, unit)
	p.period = -1
	p.duty = -1

	vFile := p.base + periodFile
	err := export(vFile, pwmExportFile, unit)
	if err != nil {
		return nil, err
	}
	p.pFile, err = os.OpenFile(vFile, os.O_RDWR, 0600)
	if err != nil {
		unexport(pwmUnexportFile, unit)
		return nil, err
	}
	dName := p.base + dutyFile
	err = verifyFile(dName)
	if err != nil {
		p.pFile.Close()
		unexport(pwmUnexportFile, unit)
		return nil, err
	}
	p.dFile, err = os.OpenFile(dName, os.O_RDWR, 0600)
	if err != nil {
		p.pFile.Close()
		unexport(pwmUnexportFile, unit)
		return nil, err
	}
	// Default settings
	p.Set(time.Millisecond*20, 0)
	err = writeFile(p.base+enableFile, "1")
	if err != nil {
		p.pFile.Close()
		p.dFile.Close()
		unexport(pwmUnexportFile, unit)
		return nil, err
	}
	return p, nil
}

// Close closes the PWM controller
func (p *HwPwm) Close() {
	writeFile(p.base+enableFile, "0")
	p.pFile.Close()
	p.dFile.Close()
	unexport(pwmUnexportFile, p.unit)
}

// Set sets the PWM parameters.
func (p *HwPwm) Set(period time.Duration, duty float64) error {
	if duty < 0 || duty > 1 {
		return fmt.Errorf("pwm%d: invalid duty cycle %g", p.unit, duty)
	}
	pNano := period.Nanoseconds()
	if pNano < 15 {
		return fmt.Errorf("pwm%d: invalid period %s", p.unit, period)
	}
	dNano := int64(float64(pNano) * duty)
	// When writing the period and duty cycle, the order may be important
	// since duty cycle must not be greater than the current period.
	if dNano > p.period {
		// Write period first
		if err := p.write(p.pFile, pNano); err != nil {
			return err
		}
		if err := p.write(p.dFile, dNano); err != nil {
			return err
		}
	} else {
		if dNano != p.duty {
			if err := p.write(p.dFile, dNano); err != nil {
				return err
			}
		}
		if pNano != p.period {
			if err := p.write(p.pFile, pNano); err != nil {
				return err
			}
		}
	}
	p.period = pNano
	p.duty = dNano
	return nil
}

func (p *HwPwm) write(f *os.File, v int64) error {
	_, err := f.WriteAt([]byte(strconv.FormatInt(v, 10)), 0)
	return err
}
