package usi

// SettingOption is one "setoption name K value V" pair pushed during Init.
type SettingOption struct {
	Name, Value string
}

type config struct {
	workDir string
	args    []string
	order   []string          // option names, in first-seen order
	values  map[string]string // name -> most-recently-supplied value
}

// Option configures a Session before Init is called.
type Option func(*config)

// WithWorkDir sets the child process's working directory.
func WithWorkDir(dir string) Option {
	return func(c *config) {
		c.workDir = dir
	}
}

// WithArgs sets the child process's argv (excluding argv[0]).
func WithArgs(args ...string) Option {
	return func(c *config) {
		c.args = args
	}
}

// WithOption queues a "setoption name K value V" to be pushed, in supplied
// order, right after the usi/usiok handshake. If the same name is supplied
// more than once, the last value wins but the option keeps its original
// position in the push order.
func WithOption(name, value string) Option {
	return func(c *config) {
		if c.values == nil {
			c.values = map[string]string{}
		}
		if _, seen := c.values[name]; !seen {
			c.order = append(c.order, name)
		}
		c.values[name] = value
	}
}

func (c config) settings() []SettingOption {
	out := make([]SettingOption, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, SettingOption{Name: name, Value: c.values[name]})
	}
	return out
}
