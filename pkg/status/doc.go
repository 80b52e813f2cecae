/*
Package status models what a sync run did to the destination tree.

🎯 Purpose:
- Names the three actions a sync can apply: add, update and delete
- Collects them in a Report that is safe to share between goroutines
- Renders actions and totals for the console

🔄 Flow:
1. The reconciler records every action it applies into a Report
2. Callers inspect counts or the ordered action list
3. The CLI prints them through a FileFormatter

🔍 Example:

	report, err := reconcile.Sync(ctx, fs, "build", "public")
	if err != nil {
		return err
	}
	fmt.Println(status.NewDefaultFileFormatter().FormatSummary(report))
*/
package status
