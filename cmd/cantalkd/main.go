package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/cantalk/cantalk/pkg/bus"
	"github.com/cantalk/cantalk/pkg/chat"
	"github.com/cantalk/cantalk/pkg/cli/sh"
	"github.com/cantalk/cantalk/pkg/display"
	"github.com/cantalk/cantalk/pkg/env"
	fx "github.com/cantalk/cantalk/pkg/framework"
)

var headless bool

func init() {
	env.SetupFlags()
	flag.BoolVar(&headless, "headless", headless, "Log incoming chat instead of printing to stdout.")
}

func main() {
	flag.Parse()

	conf := env.NewConfig()
	b, err := conf.NewBus()
	if err != nil {
		// Terminal after the bounded retries; do not spin forever.
		glog.Exitf("%v", err)
	}
	defer b.Close()

	shell := sh.New()
	session := shell.Setup()

	var disp display.Sink = display.NewConsole(os.Stdout)
	if headless {
		disp = display.Log{}
	}
	var led display.LED = display.LogLED{}

	dispatcher := chat.NewDispatcher(session, b)
	dispatcher.Frames = func(f bus.Frame) {
		glog.V(1).Infof("rcv id %s len %d data %s",
			display.FormatID(f.ID), f.Length, display.FormatPayload(f.Payload()))
	}
	dispatcher.Chats = chat.HandleChatFunc(func(c *chat.Chat) {
		if !c.ForMe {
			glog.V(1).Infof("chat from %s not for me", c.Sender)
			return
		}
		disp.Show(c.Sender.String(), string(c.Text))
	})
	dispatcher.Commands = chat.HandleCommandFunc(func(c *chat.Command) {
		led.Set(c.On())
	})

	sendTask := &sh.SendTask{
		Session: session,
		Bus:     b,
		Outbox:  shell.Outbox,
		Report: func(format string, args ...interface{}) {
			shell.Shell.Printf(format, args...)
		},
	}

	loop := fx.NewLoop().Add(dispatcher, sendTask)
	shell.Loop = loop

	ctx, cancel := context.WithCancel(context.Background())
	runner := fx.NewRunnerWith(ctx).HandleSignals()
	runner.Go(fx.NamedRun("loop", loop))

	shell.Run(flag.Args()...)

	// Eval mode returns as soon as the command is queued; transmit
	// anything still in the outbox before tearing the loop down.
	if err := sendTask.Tick(ctx); err != nil {
		glog.Errorf("flush failed: %v", err)
	}
	cancel()
	if err := runner.Wait(); err != nil {
		glog.Errorf("%v", err)
	}
}
