package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mlorentedev/sidehustler/internal/credential"
	"github.com/mlorentedev/sidehustler/internal/transform"
)

func greetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "greet [name]",
		Short: "Send a greeting to the backend log",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.Greet(name))
			return nil
		},
	}
}

func transformCmd() *cobra.Command {
	var req transform.Request
	cmd := &cobra.Command{
		Use:   "transform [text]",
		Short: "Rewrite text with a provider",
		Long: `Rewrite text with a provider.

The text is taken from the arguments, or from stdin when none are given.

Examples:
  sidehustler transform --style pirate "hello there"
  sidehustler transform --provider ollama --prompt simplify --set grade=5 --set count=3 < notes.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			req.Text = text
			res, err := a.Transform(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&req.Provider, "provider", "p", "", "openai, ollama or lmstudio (default from config)")
	f.StringVarP(&req.Model, "model", "m", "", "model id (default from config)")
	f.StringVarP(&req.Transformation, "style", "s", "", "transformation style, e.g. formal")
	f.StringVar(&req.Prompt, "prompt", "", "named prompt from the prompt library")
	f.StringToStringVar(&req.PromptValues, "set", nil, "prompt placeholder value (key=value)")
	f.StringVar(&req.SystemPrompt, "system", "", "explicit system prompt")
	f.IntVar(&req.MaxTokens, "max-tokens", 0, "completion token limit (0 for provider default)")
	return cmd
}

func readText(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models [provider]",
		Short: "List the models a provider offers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			models, err := a.ListModels(cmd.Context(), name)
			if err != nil {
				return err
			}
			for _, m := range models {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
}

func promptsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prompts",
		Short: "List the named prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			for _, name := range a.PromptNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func keyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the OpenAI API key",
	}
	cmd.AddCommand(keySetCmd(), keyShowCmd(), keyStatusCmd(), keyClearCmd())
	return cmd
}

func keySetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [key]",
		Short: "Save the API key (prompts when no key is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			var key string
			if len(args) == 1 {
				key = args[0]
			} else if key, err = promptKey(cmd); err != nil {
				return err
			}
			if err := a.SaveAPIKey(key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key saved to %s\n", a.Store.Path())
			return nil
		},
	}
}

// promptKey reads the key without echo on a terminal, or one line from piped stdin.
func promptKey(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(cmd.ErrOrStderr(), "OpenAI API key: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read key: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read key: %w", err)
	}
	return line, nil
}

func keyShowCmd() *cobra.Command {
	var reveal bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the API key the next request would use",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			key, err := a.LoadAPIKey()
			if err != nil {
				return err
			}
			if !reveal {
				key = maskKey(key)
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print the full key")
	return cmd
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:3] + "..." + key[len(key)-4:]
}

func keyStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether an API key is configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			st, err := a.APIKeyStatus()
			if err != nil {
				return err
			}
			if !st.Configured {
				fmt.Fprintln(cmd.OutOrStdout(), "not configured")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configured (source: %s)\n", describeSource(st.Source))
			return nil
		},
	}
}

func describeSource(s credential.Source) string {
	switch s {
	case credential.SourceEnv:
		return "environment variable"
	case credential.SourceDotfile:
		return ".env file"
	case credential.SourceConfig:
		return "config file"
	default:
		return string(s)
	}
}

func keyClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the saved API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.ClearAPIKey(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key removed")
			return nil
		},
	}
}
