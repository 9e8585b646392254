// This file is part of spaceguard.
//
// spaceguard is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// spaceguard is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with spaceguard.  If not, see <https://www.gnu.org/licenses/>.

package script

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spaceguard/spaceguard/curated"
	"github.com/spaceguard/spaceguard/logger"
	"github.com/spaceguard/spaceguard/memspace"
)

const logTag = "script"

// binding is the value of a name
type binding struct {
	addr  uintptr
	space memspace.Space

	// memory for names bound with UNTRACKED. nil for names bound with ALLOC
	untracked []byte
}

// Interpreter executes scripts against a Memory instance.
type Interpreter struct {
	mem   *memspace.Memory
	names map[string]binding

	// output of the FAULTS command and of GRAPH when the filename is "-"
	output io.Writer

	// number of faults encountered over the lifetime of the interpreter
	Faults int
}

// NewInterpreter is the preferred method of initialisation for the
// Interpreter type.
func NewInterpreter(mem *memspace.Memory, output io.Writer) *Interpreter {
	if output == nil {
		output = io.Discard
	}
	return &Interpreter{
		mem:    mem,
		names:  make(map[string]binding),
		output: output,
	}
}

// Run every command read from r.
func (in *Interpreter) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	ln := 0
	for scanner.Scan() {
		ln++

		err := in.Exec(scanner.Text())
		if err == nil {
			continue
		}

		err = curated.Errorf(LineError, ln, err)
		if isFault(err) {
			in.Faults++
			if !in.mem.Prefs.AbortOnFault.Get().(bool) {
				logger.Log(logger.Allow, logTag, err)
				continue
			}
		}
		return err
	}

	return scanner.Err()
}

// RunFile runs the commands in the named file.
func (in *Interpreter) RunFile(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return curated.Errorf("script: %v", err)
	}
	defer f.Close()
	return in.Run(f)
}

// memory errors are faults in the program being checked
func isFault(err error) bool {
	return curated.Has(err, memspace.AllocationFailure) ||
		curated.Has(err, memspace.ReleaseFailure) ||
		curated.Has(err, memspace.AccessFailure) ||
		curated.Has(err, memspace.InvalidBuffer) ||
		curated.Has(err, memspace.SpaceMismatch) ||
		curated.Has(err, memspace.OutOfBounds) ||
		curated.Has(err, memspace.InactiveBuffer) ||
		curated.Has(err, ExpectationError)
}

// Exec a single command.
func (in *Interpreter) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	toks := strings.Fields(line)
	cmd := strings.ToUpper(toks[0])
	args := toks[1:]

	switch cmd {
	case "ALLOC":
		return in.alloc(cmd, args)
	case "FREE":
		return in.free(cmd, args)
	case "SPACE":
		return in.space(cmd, args)
	case "COPY":
		return in.copy(cmd, args)
	case "FILL":
		return in.fill(cmd, args)
	case "EXPECT":
		return in.expect(cmd, args)
	case "UNTRACKED":
		return in.untracked(cmd, args)
	case "GRAPH":
		return in.graph(cmd, args)
	case "FAULTS":
		if len(args) != 0 {
			return curated.Errorf(WrongArgCount, cmd, 0)
		}
		in.mem.Faults().WriteLog(in.output)
		return nil
	}

	return curated.Errorf(UnknownCommand, toks[0])
}

func (in *Interpreter) alloc(cmd string, args []string) error {
	if len(args) != 3 {
		return curated.Errorf(WrongArgCount, cmd, 3)
	}

	space, err := memspace.ParseSpace(args[0])
	if err != nil {
		return curated.Errorf(InvalidArgument, cmd, err)
	}
	length, err := parseInt(cmd, args[1])
	if err != nil {
		return err
	}
	name := args[2]
	if err := in.checkName(cmd, name); err != nil {
		return err
	}

	addr, err := in.mem.Allocate(space, length)
	if err != nil {
		return err
	}

	in.names[name] = binding{addr: addr, space: space}
	return nil
}

func (in *Interpreter) free(cmd string, args []string) error {
	if len(args) != 2 {
		return curated.Errorf(WrongArgCount, cmd, 2)
	}

	space, err := memspace.ParseSpace(args[0])
	if err != nil {
		return curated.Errorf(InvalidArgument, cmd, err)
	}
	name, addr, err := in.resolve(args[1])
	if err != nil {
		return err
	}

	err = in.mem.Deallocate(space, addr)
	if err != nil {
		return err
	}

	delete(in.names, name)
	return nil
}

func (in *Interpreter) space(cmd string, args []string) error {
	if len(args) != 1 {
		return curated.Errorf(WrongArgCount, cmd, 1)
	}

	space, err := memspace.ParseSpace(args[0])
	if err != nil {
		return curated.Errorf(InvalidArgument, cmd, err)
	}

	return in.mem.SetCurrentSpace(space)
}

func (in *Interpreter) copy(cmd string, args []string) error {
	if len(args) != 5 {
		return curated.Errorf(WrongArgCount, cmd, 5)
	}

	dstSpace, err := memspace.ParseSpace(args[0])
	if err != nil {
		return curated.Errorf(InvalidArgument, cmd, err)
	}
	_, dst, err := in.resolve(args[1])
	if err != nil {
		return err
	}
	srcSpace, err := memspace.ParseSpace(args[2])
	if err != nil {
		return curated.Errorf(InvalidArgument, cmd, err)
	}
	_, src, err := in.resolve(args[3])
	if err != nil {
		return err
	}
	length, err := parseInt(cmd, args[4])
	if err != nil {
		return err
	}

	return in.mem.Copy(dstSpace, dst, srcSpace, src, length)
}

// view returns the bytes at the ref. tracked memory must be in the current
// space
func (in *Interpreter) view(cmd string, ref string, length int) ([]byte, error) {
	name, addr, err := in.resolve(ref)
	if err != nil {
		return nil, err
	}

	b := in.names[name]
	if b.untracked != nil {
		off := int(addr - b.addr)
		if length < 0 || off+length > len(b.untracked) {
			return nil, curated.Errorf(InvalidArgument, cmd,
				fmt.Sprintf("%d bytes at %s exceeds untracked memory", length, ref))
		}
		return b.untracked[off : off+length], nil
	}

	return in.mem.Bytes(b.space, addr, length)
}

func (in *Interpreter) fill(cmd string, args []string) error {
	if len(args) != 3 {
		return curated.Errorf(WrongArgCount, cmd, 3)
	}

	v, err := parseByte(cmd, args[1])
	if err != nil {
		return err
	}
	length, err := parseInt(cmd, args[2])
	if err != nil {
		return err
	}

	m, err := in.view(cmd, args[0], length)
	if err != nil {
		return err
	}
	for i := range m {
		m[i] = v
	}

	return nil
}

func (in *Interpreter) expect(cmd string, args []string) error {
	if len(args) != 3 {
		return curated.Errorf(WrongArgCount, cmd, 3)
	}

	v, err := parseByte(cmd, args[1])
	if err != nil {
		return err
	}
	length, err := parseInt(cmd, args[2])
	if err != nil {
		return err
	}

	m, err := in.view(cmd, args[0], length)
	if err != nil {
		return err
	}
	for i := range m {
		if m[i] != v {
			return curated.Errorf(ExpectationError,
				fmt.Sprintf("%s+%d is %#02x not %#02x", args[0], i, m[i], v))
		}
	}

	return nil
}

func (in *Interpreter) untracked(cmd string, args []string) error {
	if len(args) != 2 {
		return curated.Errorf(WrongArgCount, cmd, 2)
	}

	name := args[0]
	if err := in.checkName(cmd, name); err != nil {
		return err
	}
	length, err := parseInt(cmd, args[1])
	if err != nil {
		return err
	}
	if length <= 0 {
		return curated.Errorf(InvalidArgument, cmd, args[1])
	}

	m := make([]byte, length)
	in.names[name] = binding{
		addr:      addressOf(m),
		space:     memspace.Host,
		untracked: m,
	}

	return nil
}

func (in *Interpreter) graph(cmd string, args []string) error {
	if len(args) != 1 {
		return curated.Errorf(WrongArgCount, cmd, 1)
	}

	if args[0] == "-" {
		in.mem.Graph(in.output)
		return nil
	}

	f, err := os.Create(args[0])
	if err != nil {
		return curated.Errorf(InvalidArgument, cmd, err)
	}
	defer f.Close()

	in.mem.Graph(f)
	return nil
}

func (in *Interpreter) checkName(cmd string, name string) error {
	if strings.ContainsAny(name, "+-") {
		return curated.Errorf(InvalidArgument, cmd, name)
	}
	if _, ok := in.names[name]; ok {
		return curated.Errorf(DuplicateName, name)
	}
	return nil
}
