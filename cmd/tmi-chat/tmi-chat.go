// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

// tmi-chat is a minimal terminal chat client built on the tmi package,
// useful for exercising a connection end to end.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/docopt/docopt-go"
	"github.com/ergochat/tmi-go/tmi"
	"github.com/ergochat/tmi-go/tmi/twitch"
)

// set via linker flags, either by make or by goreleaser:
var commit = ""  // git hash
var version = "" // tagged version

func versionString() string {
	if version == "" {
		return "tmi-chat (unreleased)"
	}
	if commit != "" {
		return fmt.Sprintf("tmi-chat %s (%s)", version, commit)
	}
	return fmt.Sprintf("tmi-chat %s", version)
}

// get a token from stdin from the user
func getTokenFromTerminal() string {
	byteToken, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatal("Error reading token:", err.Error())
	}
	return string(byteToken)
}

func fileDoesNotExist(file string) bool {
	if _, err := os.Stat(file); os.IsNotExist(err) {
		return true
	}
	return false
}

// implements the `tmi-chat token` command
func doToken() {
	var token string
	if term.IsTerminal(int(syscall.Stdin)) {
		fmt.Print("Enter OAuth token: ")
		token = getTokenFromTerminal()
		fmt.Print("\n")
	} else {
		reader := bufio.NewReader(os.Stdin)
		text, _ := reader.ReadString('\n')
		token = strings.TrimSpace(text)
	}
	token = strings.TrimPrefix(token, "oauth:")
	if token == "" {
		log.Fatal("no token given")
	}
	fmt.Printf("pass: oauth:%s\n", token)
}

func printEvent(event twitch.Event) {
	switch e := event.(type) {
	case *twitch.Privmsg:
		name := e.DisplayName()
		if name == "" {
			name = e.Name
		}
		if e.Action {
			fmt.Printf("[#%s] * %s %s\n", e.Channel, name, e.Data)
		} else {
			fmt.Printf("[#%s] <%s> %s\n", e.Channel, name, e.Data)
		}
	case *twitch.Whisper:
		fmt.Printf("[whisper] <%s> %s\n", e.Name, e.Data)
	case *twitch.Notice:
		fmt.Printf("[#%s] ! %s\n", e.Channel, e.Data)
	case *twitch.UserNotice:
		fmt.Printf("[#%s] * %s\n", e.Channel, e.SystemMsg())
	case *twitch.ClearChat:
		if e.Target != "" {
			fmt.Printf("[#%s] * %s's messages were cleared\n", e.Channel, e.Target)
		} else {
			fmt.Printf("[#%s] * chat was cleared\n", e.Channel)
		}
	case *twitch.Join:
		fmt.Printf("[#%s] --> %s\n", e.Channel, e.Name)
	case *twitch.Part:
		fmt.Printf("[#%s] <-- %s\n", e.Channel, e.Name)
	case *twitch.Reconnect:
		fmt.Println("* server requested a reconnect")
	}
}

// implements the `tmi-chat run` command
func doRun(configFile string, channels []string) {
	var config *tmi.Config
	var err error
	if fileDoesNotExist(configFile) {
		// an absent config means an anonymous read-only session
		config = tmi.DefaultConfig()
	} else {
		config, err = tmi.LoadConfig(configFile)
		if err != nil {
			log.Fatal("Config file did not load successfully: ", err.Error())
		}
	}

	client, err := tmi.NewClient(config)
	if err != nil {
		log.Fatal("Could not create client: ", err.Error())
	}
	ctx := context.Background()
	if err := client.Connect(ctx); err != nil {
		log.Fatal("Could not connect: ", err.Error())
	}
	fmt.Printf("connected as %s\n", client.Nick())

	if len(channels) != 0 {
		if err := client.Join(ctx, channels...); err != nil {
			log.Fatal("Could not join: ", err.Error())
		}
	}

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, "/join ") {
				if err := client.Join(ctx, strings.TrimPrefix(line, "/join ")); err != nil {
					fmt.Println("join failed:", err.Error())
				}
				continue
			}
			// "channel message ..."
			fields := strings.SplitN(line, " ", 2)
			if len(fields) != 2 {
				fmt.Println("usage: <channel> <message>, or /join <channel>")
				continue
			}
			if err := client.Say(ctx, fields[0], fields[1]); err != nil {
				fmt.Println("send failed:", err.Error())
			}
		}
		client.Close()
	}()

	for event := range client.C() {
		printEvent(event)
	}
	if err := client.Err(); err != nil {
		log.Fatal("connection lost: ", err.Error())
	}
}

func main() {
	usage := `tmi-chat.
Usage:
	tmi-chat token
	tmi-chat run [--conf <filename>] [--channel <channel>]...
	tmi-chat -h | --help
	tmi-chat --version
Options:
	--conf <filename>      Configuration file to use [default: tmi.yaml].
	--channel <channel>    Channel to join on startup; repeatable.
	-h --help              Show this screen.
	--version              Show version.`

	arguments, _ := docopt.ParseArgs(usage, nil, versionString())

	if arguments["token"].(bool) {
		doToken()
		return
	}

	channels, _ := arguments["--channel"].([]string)
	doRun(arguments["--conf"].(string), channels)
}
