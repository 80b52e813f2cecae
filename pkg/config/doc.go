/*
Package config loads the sync jobs syncrc runs.

	            +-------------+
	            |   Config    |
	            |   (Jobs)    |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   HCL    | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Reads a job file and picks a parser by extension
- Validates every job before anything is synced
- Turns ignore rules into a filter.NameFilter

🔄 Flow:
1. Reads the configuration file
2. Parses the format-specific syntax, rejecting unknown fields
3. Validates jobs and fills defaults (name, recursive)
4. Resolves relative paths against the file's directory

🤝 Interfaces:
- Parser: format-specific parsing, registered from init

🔍 Example:

	jobs:
	  - name: assets
	    source: build/assets
	    destination: public/assets
	    ignore:
	      names: [".DS_Store"]
	      patterns: ["^~"]
	      globs: ["*.tmp"]

The same job in HCL, where env exposes the process environment:

	job "assets" {
	  source      = "build/assets"
	  destination = env.ASSETS_OUT
	  ignore {
	    names = [".DS_Store"]
	  }
	}

Loading it:

	cfg, err := config.Load(ctx, ".syncrc.yaml")
	if err != nil {
		return err
	}
	for _, job := range cfg.GetJobs() {
		ignore, _ := job.Filter() // validated by Load
		...
	}
*/
package config
