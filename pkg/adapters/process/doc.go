/*
Package process serves remote routes with local commands.

Routes are declared in a resolvers.yaml file:

	resolvers:
	  - name: reviewers
	    strategy: query
	    command: ./scripts/reviewers.sh
	  - name: statistics
	    command: python3
	    args: [scripts/stats.py]

Each call runs the command once. Params arrive as a JSON object on stdin and as
LATTICE_PARAM_<NAME> environment variables. The command prints its result on stdout;
output that parses as JSON is decoded, anything else is returned as text. A non-zero exit
status or a cancelled context is reported as a *domain.RemoteError carrying stderr.
*/
package process
