/*
Package runner implements the interactive loop for a Lattice session.

The runner starts (or resumes) a session, prints its snapshots, and then reads one command
per line until the input ends:

	reviewer=1          write a JSON value to a writable node
	note="hello world"  values that are not valid JSON are taken as text
	!filter             recompute a node explicitly
	:show               print every node again
	:quit               stop

Each edit or explicit change is a separate interaction: the session is updated and only the
recomputed nodes are printed. Errors are reported and the loop continues.

The JSON handler reads {"values": {...}, "changed": [...]} objects, one per line, and writes
one result object per interaction, for hosts that drive the runner over a pipe.

	r := runner.NewRunner(svc,
		runner.WithSessionID("user-1"),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
