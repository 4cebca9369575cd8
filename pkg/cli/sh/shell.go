// Package sh provides the ishell backed operator surface: setup
// prompts and the interactive chat loop.
package sh

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/cantalk/cantalk/pkg/chat"
	fx "github.com/cantalk/cantalk/pkg/framework"
)

const shellKey = "$shell"

// outboxDepth bounds queued operator actions awaiting the send task.
const outboxDepth = 16

var (
	// flags

	evalOnly  bool
	meName    string
	toNames   string
	boardName string

	// commands
	commands = []*ishell.Cmd{
		&SayCmd,
		&LedCmd,
		&ToCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.StringVar(&meName, "me", "", "Identity name, skips the setup prompt.")
	flag.StringVar(&toNames, "to", "", "Comma separated recipient names (default: everyone else).")
	flag.StringVar(&boardName, "board", chat.Uno.String(), "Local board name.")
}

// AddCmds is used by other command providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// OutgoingKind discriminates queued operator actions.
type OutgoingKind int

const (
	// OutgoingChat is a chat message.
	OutgoingChat OutgoingKind = iota
	// OutgoingCommand is a device command.
	OutgoingCommand
)

// Outgoing is one operator action queued for the send path.
type Outgoing struct {
	Kind OutgoingKind
	Text string
	Dev  chat.Device
	On   bool
}

// Shell wraps ishell with the chat session and outbound queue.
type Shell struct {
	Interactive bool

	Shell   *ishell.Shell
	Session *chat.Session
	Outbox  chan Outgoing
	Loop    *fx.Loop
}

// New creates a new shell.
func New() *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		Shell:       ishell.New(),
		Outbox:      make(chan Outgoing, outboxDepth),
	}
	s.Shell.Set(shellKey, s)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	// A bare line that is no command is chat text.
	s.Shell.NotFound(func(c *ishell.Context) {
		ShellFrom(c).queue(c, Outgoing{Kind: OutgoingChat, Text: strings.Join(c.RawArgs, " ")})
	})
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// sessionFromNames builds a session from flag values without prompting.
func sessionFromNames(me, to, board string) (*chat.Session, error) {
	id, ok := chat.IdentityByName(me)
	if !ok {
		return nil, fmt.Errorf("unknown identity %q", me)
	}
	dev, ok := chat.DeviceByName(board)
	if !ok {
		return nil, fmt.Errorf("unknown device %q", board)
	}
	set := chat.Broadcast(id)
	if to != "" {
		set = chat.RecipientSet(0)
		for _, name := range strings.Split(to, ",") {
			r, ok := chat.IdentityByName(strings.TrimSpace(name))
			if !ok {
				return nil, fmt.Errorf("unknown recipient %q", name)
			}
			set = set.Add(r)
		}
		set = set.Remove(id)
		if set.IsEmpty() {
			return nil, fmt.Errorf("no recipients besides yourself")
		}
	}
	return chat.NewSession(id, set, dev), nil
}

// Setup builds the session, from flags when -me is given, otherwise
// through the interactive prompts. Without a terminal there is nothing
// to prompt, so missing flags fail fast instead of spinning.
func (s *Shell) Setup() *chat.Session {
	if meName != "" {
		session, err := sessionFromNames(meName, toNames, boardName)
		if err != nil {
			log.Fatalln(err)
		}
		s.Session = session
	} else if !s.Interactive {
		log.Fatalln("-me is required in non-interactive mode")
	} else {
		s.Session = s.promptSession()
	}
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", s.Session.Me))
	s.Shell.Printf("you are %s, chatting to %s, board %s\n",
		s.Session.Me, s.Session.Recipients(), s.Session.Dev)
	return s.Session
}

// promptSession runs the interactive setup prompts. MultiChoice keeps
// out-of-range input at the prompt itself; it returns -1 only when the
// prompt is aborted, which ends setup rather than re-asking forever.
func (s *Shell) promptSession() *chat.Session {
	ids := chat.Identities()
	names := make([]string, len(ids))
	for n, id := range ids {
		names[n] = id.String()
	}

	me := chat.FromOrdinal(s.Shell.MultiChoice(names, "Who are you?") + 1)
	if me == chat.None {
		log.Fatalln("setup aborted")
	}

	checked := s.Shell.Checklist(names, "Send chat to? (empty = everyone else)", nil)
	var to chat.RecipientSet
	for _, n := range checked {
		if n >= 0 {
			to = to.Add(chat.FromOrdinal(n + 1))
		}
	}
	to = to.Remove(me)
	if to.IsEmpty() {
		to = chat.Broadcast(me)
	}

	devs := chat.Devices()
	devNames := make([]string, len(devs))
	for n, dev := range devs {
		devNames[n] = dev.String()
	}
	choice := s.Shell.MultiChoice(devNames, "Which board is this?")
	if choice < 0 || choice >= len(devs) {
		log.Fatalln("setup aborted")
	}

	return chat.NewSession(me, to, devs[choice])
}

// queue hands an action to the send task without blocking the shell.
func (s *Shell) queue(c *ishell.Context, out Outgoing) {
	select {
	case s.Outbox <- out:
		if s.Loop != nil {
			s.Loop.TriggerNext()
		}
	default:
		c.Err(fmt.Errorf("send queue full, try again"))
	}
}

// Run runs the shell. With args it evaluates them as one command and
// returns; the caller still owns flushing anything the command queued.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// SayCmd sends a chat message explicitly.
	SayCmd = ishell.Cmd{
		Name:    "say",
		Aliases: []string{"s"},
		Help:    "TEXT",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("TEXT required"))
				return
			}
			ShellFrom(c).queue(c, Outgoing{Kind: OutgoingChat, Text: strings.Join(c.Args, " ")})
		},
	}

	// LedCmd sends a device command.
	LedCmd = ishell.Cmd{
		Name: "led",
		Help: "DEVICE on|off",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("DEVICE and on|off required"))
				return
			}
			dev, ok := chat.DeviceByName(c.Args[0])
			if !ok {
				c.Err(fmt.Errorf("unknown device %q", c.Args[0]))
				return
			}
			var on bool
			switch c.Args[1] {
			case "on":
				on = true
			case "off":
			default:
				c.Err(fmt.Errorf("expected on|off, got %q", c.Args[1]))
				return
			}
			ShellFrom(c).queue(c, Outgoing{Kind: OutgoingCommand, Dev: dev, On: on})
		},
	}

	// ToCmd shows or changes the recipient set.
	ToCmd = ishell.Cmd{
		Name: "to",
		Help: "[NAME ...] show or change recipients",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) == 0 {
				c.Println(s.Session.Recipients())
				return
			}
			var to chat.RecipientSet
			for _, arg := range c.Args {
				id, ok := chat.IdentityByName(arg)
				if !ok {
					c.Err(fmt.Errorf("unknown name %q", arg))
					return
				}
				to = to.Add(id)
			}
			s.Session.SetRecipients(to.Remove(s.Session.Me))
		},
	}
)
