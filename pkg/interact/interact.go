package interact

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrExit is returned by a command handler to end the interaction loop.
var ErrExit = errors.New("exit")

type Reply interface {
	Message(message string)
}

type State string

const StatePublic State = "public"

// Interact dispatches text lines to the registered commands and keeps
// track of multi-step commands that ask for more input.
type Interact struct {
	commands map[string]*Command

	// current is the command owning currentState
	current *Command

	originState, currentState State
}

func New() *Interact {
	return &Interact{
		commands:     make(map[string]*Command),
		originState:  StatePublic,
		currentState: StatePublic,
	}
}

func (i *Interact) Command(command, desc string, f interface{}) *Command {
	cmd := NewCommand(command, desc, f)
	i.commands[command] = cmd
	return cmd
}

// Commands returns the registered commands sorted by name.
func (i *Interact) Commands() []*Command {
	var cmds []*Command
	for _, cmd := range i.commands {
		cmds = append(cmds, cmd)
	}

	sort.Slice(cmds, func(a, b int) bool {
		return cmds[a].Name < cmds[b].Name
	})
	return cmds
}

// Pending tells whether a multi-step command is waiting for its next input.
func (i *Interact) Pending() bool {
	return i.currentState != i.originState
}

func (i *Interact) getNextState(currentState State) (nextState State, final bool) {
	if i.current == nil {
		return i.originState, true
	}

	var ok bool
	final = false
	nextState, ok = i.current.states[currentState]
	if ok {
		// check if it's the final state
		if _, hasTransition := i.current.statesFunc[nextState]; !hasTransition {
			final = true
		}

		return nextState, final
	}

	// state not found, return to the origin state
	return i.originState, final
}

func (i *Interact) setState(s State) {
	log.Debugf("[interact]: transiting state from %s -> %s", i.currentState, s)
	i.currentState = s
	if s == i.originState {
		i.current = nil
	}
}

func (i *Interact) transit() {
	nextState, end := i.getNextState(i.currentState)
	if end {
		i.setState(i.originState)
		return
	}

	i.setState(nextState)
}

// HandleLine feeds one input line either to the pending command state or,
// when nothing is pending, to the command named by the first word.
func (i *Interact) HandleLine(text string, reply Reply) error {
	args, err := parseCommand(text)
	if err != nil {
		return err
	}

	if i.Pending() {
		return i.handleResponse(args, reply)
	}

	if len(args) == 0 {
		return nil
	}

	return i.runCommand(args[0], args[1:], reply)
}

func (i *Interact) handleResponse(args []string, ctxObjects ...interface{}) error {
	var f interface{}
	var ok bool
	if i.current != nil {
		f, ok = i.current.statesFunc[i.currentState]
	}

	if !ok {
		state := i.currentState
		i.setState(i.originState)
		return fmt.Errorf("state function of %s is not defined", state)
	}

	if err := parseFuncArgsAndCall(f, args, ctxObjects...); err != nil {
		// a failed step aborts the command
		i.setState(i.originState)
		return err
	}

	i.transit()
	return nil
}

func (i *Interact) getCommand(command string) (*Command, error) {
	if cmd, ok := i.commands[command]; ok {
		return cmd, nil
	}

	return nil, fmt.Errorf("command %s not found", command)
}

func (i *Interact) runCommand(command string, args []string, ctxObjects ...interface{}) error {
	cmd, err := i.getCommand(command)
	if err != nil {
		return err
	}

	i.current = cmd
	i.setState(cmd.initState)
	if err := parseFuncArgsAndCall(cmd.F, args, ctxObjects...); err != nil {
		i.setState(i.originState)
		return err
	}

	// if we can successfully execute the command, then we can go to the next state.
	i.transit()
	return nil
}

func parseCommand(src string) ([]string, error) {
	args, err := shellwords.Parse(src)
	if err != nil {
		return nil, errors.Wrapf(err, "can not parse command %q", src)
	}

	return args, nil
}

func parseFuncArgsAndCall(f interface{}, args []string, objects ...interface{}) error {
	fv := reflect.ValueOf(f)
	ft := reflect.TypeOf(f)

	objectIndex := 0
	argIndex := 0

	var rArgs []reflect.Value
	for i := 0; i < ft.NumIn(); i++ {
		at := ft.In(i)

		if ft.IsVariadic() && i == ft.NumIn()-1 {
			for ; argIndex < len(args); argIndex++ {
				av, err := parseArg(at.Elem(), args[argIndex])
				if err != nil {
					return err
				}

				rArgs = append(rArgs, av)
			}

			break
		}

		if at.Kind() == reflect.Interface {
			found := false
			for oi := objectIndex; oi < len(objects); oi++ {
				obj := objects[oi]
				if reflect.TypeOf(obj).Implements(at) {
					found = true
					rArgs = append(rArgs, reflect.ValueOf(obj))
					objectIndex = oi + 1
					break
				}
			}

			if !found {
				return fmt.Errorf("can not find object implements %s", at)
			}

			continue
		}

		if argIndex >= len(args) {
			return fmt.Errorf("missing argument #%d (%s)", argIndex+1, at.Kind())
		}

		av, err := parseArg(at, args[argIndex])
		if err != nil {
			return err
		}

		rArgs = append(rArgs, av)
		argIndex++
	}

	if argIndex < len(args) {
		return fmt.Errorf("unexpected argument %q", args[argIndex])
	}

	out := fv.Call(rArgs)

	// try to get the error object from the return value
	for _, o := range out {
		if err, ok := o.Interface().(error); ok && err != nil {
			return err
		}
	}

	return nil
}

func parseArg(at reflect.Type, arg string) (reflect.Value, error) {
	switch k := at.Kind(); k {

	case reflect.String:
		return reflect.ValueOf(arg), nil

	case reflect.Bool:
		bv, err := strconv.ParseBool(arg)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(bv), nil

	case reflect.Int64:
		nf, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid integer %q", arg)
		}
		return reflect.ValueOf(nf), nil

	case reflect.Float64:
		nf, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(nf), nil

	default:
		return reflect.Value{}, fmt.Errorf("unsupported argument type %s", k)
	}
}
