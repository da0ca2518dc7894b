package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
)

// RunOptions overrides the terminal streams; nil keeps stdin and stdout.
type RunOptions struct {
	Input  io.Reader
	Output io.Writer
}

// Run shows the dashboard full screen until the user quits or ctx is done.
func Run(ctx context.Context, ds *storypoints.Dataset, opts RunOptions) error {
	programOpts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	}

	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}

	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}

	_, err := tea.NewProgram(New(ds), programOpts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}

		return fmt.Errorf("run dashboard: %w", err)
	}

	return nil
}
