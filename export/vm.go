package export

import (
	"errors"
	"io"
	"math"

	"github.com/mastercactapus/autonpath/coord"
	"github.com/mastercactapus/autonpath/route"
)

// VM replays actions the way the robot's controller would and tracks
// the pose it ends up at.
type VM struct {
	pos coord.Pose

	travel   float64
	commands []string
	actions  int
}

func NewVM(start coord.Pose) *VM {
	return &VM{pos: start}
}

func (vm VM) Pos() coord.Pose { return vm.pos }

// Travel is the distance driven so far, in inches.
func (vm VM) Travel() float64 { return vm.travel }

// Commands lists the command names run so far, in order.
func (vm VM) Commands() []string { return vm.commands }

func (vm VM) Actions() int { return vm.actions }

func (vm *VM) Run(a Action) error {
	switch a.Type {
	case route.Lateral:
		vm.pos = vm.pos.Displace(a.Specific)
		vm.travel += math.Abs(a.Specific)
	case route.Turn:
		vm.pos.Heading = a.Specific
	case route.Command:
		vm.commands = append(vm.commands, a.Name)
	case route.Follow:
		if len(a.Points) == 0 {
			return errors.New("follow route has no points")
		}
		prev := vm.pos
		var moved bool
		for _, p := range a.Points {
			next := coord.Pose{X: p.X, Y: p.Y, Heading: prev.Heading}
			if !prev.SamePosition(next) {
				next.Heading = coord.HeadingTo(prev, next)
				vm.travel += coord.Distance(prev, next)
				moved = true
			}
			prev = next
		}
		if moved && a.Lookahead < 0 {
			prev.Heading -= math.Pi
		}
		vm.pos = prev
	default:
		return errors.New("unsupported action: " + a.Type.String())
	}
	vm.actions++
	return nil
}

// RunAll replays every action from r.
func (vm *VM) RunAll(r Reader) error {
	for {
		a, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		err = vm.Run(a)
		if err != nil {
			return err
		}
	}
}
