package core

import (
	"fmt"
	"os"
	"os/user"
	"strconv"

	"github.com/fatih/color"
	"github.com/josephlewis42/kesh/core/config"
)

// Identity holds the values shown in the prompt besides the status.
type Identity struct {
	User string
	Host string
	Dir  string
}

// CurrentIdentity looks up the effective user, the hostname and the working
// directory of the process. Values that can't be found are left as "?".
func CurrentIdentity() Identity {
	id := Identity{User: "?", Host: "?", Dir: "?"}

	if u, err := user.LookupId(strconv.Itoa(os.Geteuid())); err == nil {
		id.User = u.Username
	} else if name := os.Getenv("USER"); name != "" {
		id.User = name
	}
	if host, err := os.Hostname(); err == nil {
		id.Host = host
	}
	if dir, err := os.Getwd(); err == nil {
		id.Dir = dir
	}
	return id
}

// Prompter renders the prompt "<status>|<user>@<host>:<dir>> ".
type Prompter struct {
	// ColorMode is one of the config.PromptColor* values.
	ColorMode string
	// Terminal is set if the prompt is shown on a terminal, it decides
	// whether to color in auto mode.
	Terminal bool
	// Identity is called on every render, CurrentIdentity if nil.
	Identity func() Identity
}

func (p *Prompter) colorize() bool {
	switch p.ColorMode {
	case config.PromptColorAlways:
		return true
	case config.PromptColorNever:
		return false
	default:
		return p.Terminal
	}
}

func (p *Prompter) status(status int) string {
	c := color.New(color.Bold, color.FgGreen)
	if status != 0 {
		c = color.New(color.Bold, color.FgRed)
	}

	if p.colorize() {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(status)
}

// Render builds the prompt for the given state.
func (p *Prompter) Render(st *State) string {
	identity := CurrentIdentity
	if p.Identity != nil {
		identity = p.Identity
	}
	id := identity()

	return fmt.Sprintf("%s|%s@%s:%s> ", p.status(st.LastStatus), id.User, id.Host, id.Dir)
}
