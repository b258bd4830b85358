package input

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hammamikhairi/wristtimer/internal/duration"
	"github.com/hammamikhairi/wristtimer/internal/logger"
)

// maxRepeat caps "up N" / "down N" so a typo cannot queue a huge burst.
const maxRepeat = 99

// KeywordParser maps console words to commands using simple patterns.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex *regexp.Regexp
	build func(m []string) (Command, error)
}

// NewKeywordParser creates a keyword-based command parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	fixed := func(c Command) func([]string) (Command, error) {
		return func([]string) (Command, error) { return c, nil }
	}

	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(select|sel|s|ok|enter|start|pause|go)$`), fixed(Click(ButtonSelect))},
		{regexp.MustCompile(`(?i)^(long|mode|edit|m)$`), fixed(LongPress(ButtonSelect))},
		{regexp.MustCompile(`(?i)^(double|reset|dd|x)$`), fixed(DoubleClick(ButtonSelect))},
		{regexp.MustCompile(`(?i)^(?:up|u|\+)(?:\s+(\d+))?$`), repeatRule(ButtonUp)},
		{regexp.MustCompile(`(?i)^(?:down|d|-)(?:\s+(\d+))?$`), repeatRule(ButtonDown)},
		{regexp.MustCompile(`(?i)^set\s+(\S+)$`), setRule},
		{regexp.MustCompile(`(?i)^(status|where|info)$`), fixed(Command{Kind: CommandStatus})},
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), fixed(Command{Kind: CommandHelp})},
		{regexp.MustCompile(`(?i)^(quit|exit|q)$`), fixed(Command{Kind: CommandQuit})},
	}
	return p
}

// Parse converts one console line into a command. Unrecognized input
// yields CommandUnknown with the trimmed text in Raw.
func (p *KeywordParser) Parse(line string) (Command, error) {
	trimmed := strings.Join(strings.Fields(line), " ")
	if trimmed == "" {
		return Command{Kind: CommandUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	for _, rule := range p.patterns {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		cmd, err := rule.build(m)
		if err != nil {
			return Command{Kind: CommandUnknown, Raw: trimmed}, err
		}
		cmd.Raw = trimmed
		p.log.Debug("matched command: %s", cmd.Kind)
		return cmd, nil
	}

	p.log.Debug("no match, returning unknown command")
	return Command{Kind: CommandUnknown, Raw: trimmed}, nil
}

func repeatRule(b Button) func([]string) (Command, error) {
	return func(m []string) (Command, error) {
		n := 1
		if len(m) > 1 && m[1] != "" {
			v, err := strconv.Atoi(m[1])
			if err != nil || v < 1 || v > maxRepeat {
				return Command{}, fmt.Errorf("repeat count %q: want 1-%d", m[1], maxRepeat)
			}
			n = v
		}
		if n == 1 {
			return Click(b), nil
		}
		return Hold(b, n), nil
	}
}

func setRule(m []string) (Command, error) {
	seconds, err := duration.Parse(m[1])
	if err != nil {
		return Command{}, err
	}
	if !duration.InRange(seconds) {
		return Command{}, fmt.Errorf("set %s: must be below 100:00:00", m[1])
	}
	return Command{Kind: CommandSet, Seconds: seconds}, nil
}
