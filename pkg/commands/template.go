package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/mfreeman451/meshbot/pkg/dispatch"
	"github.com/mfreeman451/meshbot/pkg/models"
	"github.com/mfreeman451/meshbot/pkg/prefs"
)

const whoAmITemplate = "Hi {{.SenderID}}. You are {{.SenderLongName}} [{{.SenderShortName}}]. " +
	"You are {{.HopsAway}} hops away from me. Send !prefs for your user prefs."

// TemplateDef is one template command as declared in the templates file.
type TemplateDef struct {
	Command  string `yaml:"command"`
	Name     string `yaml:"name"`
	Template string `yaml:"template"`
}

type templateFile struct {
	Commands []TemplateDef `yaml:"commands"`
}

// TemplateContext is the data a template command renders with.
type TemplateContext struct {
	RxMessage       string
	BaseCommand     string
	Args            string
	SenderID        models.NodeID
	SenderLongName  string
	SenderShortName string
	HopsAway        int
	UserPrefs       *prefs.UserPrefs
	NodeCount       int
	OnlineCount     int
	OfflineCount    int
}

type templateCommand struct {
	base
	tmpl *template.Template
}

// NewTemplateCommand parses text and returns a command that replies with it
// rendered against a TemplateContext.
func NewTemplateCommand(deps *Deps, name, token, text string) (dispatch.Command, error) {
	tmpl, err := template.New(token).Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", errTemplateParse, token, err)
	}

	return &templateCommand{
		base: base{name: name, token: token, deps: deps},
		tmpl: tmpl,
	}, nil
}

func newWhoAmI(deps *Deps) dispatch.Command {
	cmd, err := NewTemplateCommand(deps, "WhoAmICommand", "!whoami", whoAmITemplate)
	if err != nil {
		panic(err)
	}

	return cmd
}

func (c *templateCommand) context(pkt *models.Packet) (*TemplateContext, error) {
	u, err := c.sender(pkt)
	if err != nil {
		return nil, err
	}

	_, rest := dispatch.SplitMessage(pkt.Text)

	tc := &TemplateContext{
		RxMessage:       strings.TrimSpace(pkt.Text),
		BaseCommand:     c.token,
		Args:            rest,
		SenderID:        pkt.From,
		SenderLongName:  longName(u, pkt.From),
		SenderShortName: shortName(u, pkt.From),
		HopsAway:        pkt.HopsAway(),
	}

	if c.deps.Prefs != nil {
		if tc.UserPrefs, err = c.deps.Prefs.Get(pkt.From); err != nil {
			return nil, err
		}
	}

	if c.deps.Telemetry != nil {
		tc.OnlineCount = len(c.deps.Telemetry.Online())
		tc.OfflineCount = len(c.deps.Telemetry.Offline())
	}

	all, err := c.deps.Nodes.List()
	if err != nil {
		return nil, err
	}

	tc.NodeCount = len(all)

	return tc, nil
}

func (c *templateCommand) HandlePacket(_ context.Context, pkt *models.Packet) error {
	tc, err := c.context(pkt)
	if err != nil {
		return err
	}

	var b strings.Builder
	if err := c.tmpl.Execute(&b, tc); err != nil {
		return fmt.Errorf("%w %s: %w", errTemplateRender, c.token, err)
	}

	c.reply(pkt, b.String())

	return nil
}

// LoadTemplates reads template command definitions from a YAML file of the
// form:
//
//	commands:
//	  - command: "!weather"
//	    template: "Hi {{.SenderLongName}}, no forecast today."
func LoadTemplates(path string) ([]TemplateDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", errTemplateRead, path, err)
	}

	var f templateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w %s: %w", errTemplateDecode, path, err)
	}

	return f.Commands, nil
}

// RegisterTemplates parses and registers each definition. A parse error
// registers nothing.
func (r *Registry) RegisterTemplates(defs []TemplateDef) error {
	cmds := make([]dispatch.Command, len(defs))

	for i, def := range defs {
		name := def.Name
		if name == "" {
			name = "TemplateCommand"
		}

		cmd, err := NewTemplateCommand(r.deps, name, def.Command, def.Template)
		if err != nil {
			return err
		}

		cmds[i] = cmd
	}

	for i, def := range defs {
		cmd := cmds[i]

		if err := r.Register(def.Command, func(*Deps) dispatch.Command { return cmd }); err != nil {
			return err
		}
	}

	return nil
}
