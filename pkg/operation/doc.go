/*
Package operation runs configured sync jobs through the reconciler.

🎯 Purpose:
- Turns each config.Job into a reconcile.Sync call
- Runs jobs one after another, or all at once with async
- Collects one status.Report per job

🔄 Flow:
1. Reads the jobs from the config
2. In async mode, refuses jobs whose trees overlap
3. Builds the reconcile options of every job
4. Hands the jobs to the runner and gathers the reports

🤝 Interfaces:
- Config: provides the jobs
- JobTracker: optional listener extension told when a job starts and ends

📝 Design Philosophy:
The reconciler knows nothing about jobs or files on disk; everything that
is specific to running syncrc from a config lives here. A failed job stops a
sequential run. In async mode the first failure cancels the jobs still running.

🔍 Example:

	op, err := operation.New(operation.Options{
		Config:     cfg,
		Filesystem: fsys.NewOS(),
		Listener:   logger,
		Async:      true,
	})
	if err != nil {
		return err
	}
	result, err := op.Status(ctx)
	if err == nil && !result.InSync() {
		// something is pending
	}
*/
package operation
