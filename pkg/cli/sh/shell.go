// Package sh is the interactive companion shell.
package sh

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	env "github.com/robotalks/mwatch.go/pkg/env/connector"
	fx "github.com/robotalks/mwatch.go/pkg/framework"
	"github.com/robotalks/mwatch.go/pkg/link"
	"github.com/robotalks/mwatch.go/pkg/link/mqtt"
	"github.com/robotalks/mwatch.go/pkg/msgs"
)

// Sender delivers frame bytes to the connected watch.
type Sender interface {
	Send([]byte) error
}

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell   *ishell.Shell
	Config  *env.Config
	Session *Session
}

// Session is the connection to one watch.
type Session struct {
	ID     string
	Conn   *mqtt.Conn
	events *mqtt.Subscription
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&DiscoverCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Session == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// FormatInfo prints link.Info into friendly string for display.
func FormatInfo(info link.Info) string {
	var w bytes.Buffer
	fmt.Fprintf(&w, "%s", info.ID)
	if info.Meta.Description != "" {
		fmt.Fprintf(&w, ": %s", info.Meta.Description)
	}
	return w.String()
}

// SendFrame sends frame bytes to the connected watch.
func SendFrame(c *ishell.Context, frame []byte) error {
	s := ShellFrom(c)
	if s.Session == nil {
		err := fmt.Errorf("not connected")
		c.Err(err)
		return err
	}
	return sendTo(c, s.Session.Conn, frame)
}

func sendTo(c *ishell.Context, sender Sender, frame []byte) error {
	if err := sender.Send(frame); err != nil {
		c.Err(err)
		return err
	}
	glog.V(2).Infof("sent %d bytes", len(frame))
	return nil
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// DiscoverWatches discovers watches.
func (s *Shell) DiscoverWatches() ([]link.Info, error) {
	connector, err := s.Config.NewConnector()
	if err != nil {
		return nil, err
	}
	return connector.Discover(context.TODO())
}

// SelectWatch discovers watches and asks for a choice.
func (s *Shell) SelectWatch() (*link.Info, error) {
	infoList, err := s.DiscoverWatches()
	if err != nil {
		return nil, err
	}
	if len(infoList) == 0 {
		return nil, nil
	}
	var index int
	if len(infoList) > 1 {
		if !s.Interactive {
			return nil, fmt.Errorf("more than 1 watches discovered in non-interactive mode")
		}
		items := make([]string, len(infoList))
		for n, info := range infoList {
			items[n] = FormatInfo(info)
		}
		index = s.Shell.MultiChoice(items, "Which one to connect?")
	}
	return &infoList[index], nil
}

// Connect connects the watch with id and prints its events.
func (s *Shell) Connect(id string) error {
	connector, err := s.Config.NewConnector()
	if err != nil {
		return err
	}
	conn, err := connector.Connect(context.TODO(), id)
	if err != nil {
		return err
	}
	s.Disconnect()
	session := &Session{ID: id, Conn: conn}
	session.events = conn.Events(fx.HandleMessageFunc(func(ctx context.Context, msg fx.Message) {
		s.Shell.Println(msgs.Format(msg, s.OutputJSON))
	}))
	s.Session = session
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", id))
	return nil
}

// Disconnect disconnects current watch.
func (s *Shell) Disconnect() {
	if s.Session != nil {
		s.Session.events.Close()
		s.Session.Conn.Close()
		s.Session = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.ID != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.ID)
		}
		if err := s.Connect(s.Config.ID); err != nil {
			glog.Fatalf("connect %q failed: %v", s.Config.ID, err)
		}
	}
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			glog.Fatal(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	glog.Fatal("command expected")
}

var (
	// DiscoverCmd discovers watches.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			infoList, err := s.DiscoverWatches()
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if len(infoList) == 0 {
					infoList = []link.Info{}
				}
				out, err := json.Marshal(infoList)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			if len(infoList) == 0 {
				c.Println("No watches found")
				return
			}
			for _, info := range infoList {
				c.Println(FormatInfo(info))
			}
		},
	}

	// ConnectCmd connects a watch.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[ID]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var id string
			if len(c.Args) > 0 {
				id = c.Args[0]
			} else {
				info, err := s.SelectWatch()
				if err != nil {
					c.Err(err)
					return
				}
				if info == nil {
					c.Err(fmt.Errorf("no watch discovered"))
					return
				}
				id = info.ID
			}
			if err := s.Connect(id); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current watch.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(env.NewConfig()).WithAutoConnect(true).Run(flag.Args()...)
}
