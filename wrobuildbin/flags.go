package wrobuildbin

import (
	"shanhu.io/misc/errcode"
	"shanhu.io/misc/flagutil"
	"shanhu.io/wrobuild"
)

var cmdFlags = flagutil.NewFactory("wrobuild")

type configFlags struct {
	file   string
	config *wrobuild.Config
}

func declareConfigFlags(flags *flagutil.FlagSet) *configFlags {
	c := new(wrobuild.Config)
	f := &configFlags{config: c}
	flags.StringVar(&f.file, "config", "", "jsonx config file; replaces all other flags")
	flags.StringVar(&c.Src, "src", "src/main/webapp", "source directory")
	flags.StringVar(&c.Out, "out", "out", "output directory")
	flags.StringVar(&c.JSOut, "js_out", "", "js bundle output directory")
	flags.StringVar(&c.CSSOut, "css_out", "", "css bundle output directory")
	flags.StringVar(&c.Model, "model", "src/main/webapp/WEB-INF/wro.xml", "group descriptor file")
	flags.StringVar(&c.Descriptor, "descriptor", "", "project descriptor file")
	flags.StringVar(&c.Targets, "targets", "", "comma separated target groups")
	flags.StringVar(&c.Snapshot, "snapshot", "out/wrobuild.snapshot", "snapshot file")
	return f
}

// load returns the configuration from the config file when one is given,
// and from the flags otherwise.
func (f *configFlags) load() (*wrobuild.Config, error) {
	if f.file == "" {
		return f.config, nil
	}
	c, err := wrobuild.ReadConfig(f.file)
	if err != nil {
		return nil, errcode.Annotatef(err, "read config %q", f.file)
	}
	return c, nil
}
