package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nvandessel/dsa-sensei/internal/coach"
)

const chatGreeting = `DSA sensei. Tell me what you learned or solved, or ask how to reach a topic.
Type "quit" to leave.`

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [text]",
		Short: "Talk to the sensei in plain English",
		Long: `Answer a learner statement with a recommendation.

With arguments, answers once and exits. Without arguments, reads one
statement per line from stdin until EOF or "quit". Concepts mentioned in
learned-concept statements accumulate across the session.

Examples:
  sensei chat "I learned arrays and hashing"
  sensei chat "how do I get to graphs" --known trees,recursion
  sensei chat`,
		RunE: func(cmd *cobra.Command, args []string) error {
			known, _ := cmd.Flags().GetStringSlice("known")
			jsonOut, _ := cmd.Flags().GetBool("json")

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) > 0 {
				return printReply(cmd, a.coach.Reply(strings.Join(args, " "), known), jsonOut)
			}
			return runChatLoop(cmd, a, known, jsonOut)
		},
	}

	cmd.Flags().StringSlice("known", nil, "Concepts you already know (comma-separated)")
	return cmd
}

// runChatLoop answers stdin line by line, remembering learned concepts.
func runChatLoop(cmd *cobra.Command, a *app, known []string, jsonOut bool) error {
	out := cmd.OutOrStdout()
	if !jsonOut {
		fmt.Fprintln(out, chatGreeting)
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		if !jsonOut {
			fmt.Fprint(out, "\n> ")
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit", "bye":
			return nil
		}

		reply := a.coach.Reply(line, known)
		if err := printReply(cmd, reply, jsonOut); err != nil {
			return err
		}
		known = rememberConcepts(known, reply)
	}
	return scanner.Err()
}

// rememberConcepts adds the concepts a learned-concept reply counted as learned.
func rememberConcepts(known []string, reply coach.Reply) []string {
	learned := coach.LearnedConcepts(reply)
	if len(learned) == 0 {
		return known
	}
	seen := make(map[string]bool, len(known))
	for _, k := range known {
		seen[k] = true
	}
	for _, id := range learned {
		if !seen[id] {
			seen[id] = true
			known = append(known, id)
		}
	}
	return known
}

func printReply(cmd *cobra.Command, reply coach.Reply, jsonOut bool) error {
	if jsonOut {
		return writeJSON(cmd.OutOrStdout(), reply)
	}
	fmt.Fprintln(cmd.OutOrStdout(), reply.Message)
	return nil
}
