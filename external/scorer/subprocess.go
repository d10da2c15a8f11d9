package scorer

import (
	"context"
	stderrors "errors"
	"os/exec"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/diamond-odds/internal/domain/prediction"
	"github.com/riskibarqy/diamond-odds/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultWaitDelay = 2 * time.Second
	maxStderrForLog  = 512
)

type Config struct {
	// Command is the executable, e.g. "python3".
	Command string
	// Args precede the features JSON, which is always the last argument.
	Args    []string
	Timeout time.Duration
	Logger  *logging.Logger
}

// Subprocess runs the prediction model as a child process, once per call.
type Subprocess struct {
	command string
	args    []string
	timeout time.Duration
	logger  *logging.Logger
}

func NewSubprocess(cfg Config) *Subprocess {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Subprocess{
		command: strings.TrimSpace(cfg.Command),
		args:    append([]string(nil), cfg.Args...),
		timeout: timeout,
		logger:  logger,
	}
}

type scoreOutput struct {
	PredictedHomeScore *float64 `json:"predicted_home_score"`
	PredictedAwayScore *float64 `json:"predicted_away_score"`
	PredictedTotal     *float64 `json:"predicted_total"`
	ConfidenceScore    *float64 `json:"confidence_score"`
	Error              string   `json:"error"`
}

func (s *Subprocess) Score(ctx context.Context, features prediction.Features) (prediction.Score, error) {
	if s.command == "" {
		return prediction.Score{}, crerr.New("scorer command is not configured")
	}

	payload, err := sonic.Marshal(features)
	if err != nil {
		return prediction.Score{}, crerr.Wrap(err, "marshal scorer features")
	}

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stdout := bytebufferpool.Get()
	stderr := bytebufferpool.Get()
	defer bytebufferpool.Put(stdout)
	defer bytebufferpool.Put(stderr)

	args := append(append([]string(nil), s.args...), string(payload))
	cmd := exec.CommandContext(runCtx, s.command, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = defaultWaitDelay

	started := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(started)

	if stderrors.Is(runCtx.Err(), context.DeadlineExceeded) {
		s.logger.WarnContext(ctx, "scorer timed out", "timeout", s.timeout, "elapsed", elapsed)
		return prediction.Score{}, crerr.Newf("scorer timed out after %s", s.timeout)
	}

	out, decodeErr := decodeScore(stdout.B)
	if runErr != nil {
		s.logger.WarnContext(ctx, "scorer exited with error",
			"error", runErr,
			"stderr", truncate(stderr.String(), maxStderrForLog),
			"elapsed", elapsed,
		)
		if decodeErr == nil && out.Error != "" {
			return prediction.Score{}, crerr.Newf("scorer reported error: %s", out.Error)
		}
		return prediction.Score{}, crerr.Wrap(runErr, "run scorer")
	}
	if decodeErr != nil {
		return prediction.Score{}, decodeErr
	}
	if out.Error != "" {
		return prediction.Score{}, crerr.Newf("scorer reported error: %s", out.Error)
	}
	if out.PredictedHomeScore == nil || out.PredictedAwayScore == nil || out.PredictedTotal == nil || out.ConfidenceScore == nil {
		return prediction.Score{}, crerr.New("scorer output is missing prediction fields")
	}

	s.logger.DebugContext(ctx, "scorer finished", "elapsed", elapsed)
	return prediction.Score{
		PredictedHomeScore: *out.PredictedHomeScore,
		PredictedAwayScore: *out.PredictedAwayScore,
		PredictedTotal:     *out.PredictedTotal,
		ConfidenceScore:    *out.ConfidenceScore,
	}, nil
}

// decodeScore reads the last non-empty stdout line so model warnings printed
// before the result do not break parsing.
func decodeScore(raw []byte) (scoreOutput, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return scoreOutput{}, crerr.New("scorer produced no output")
	}
	if idx := strings.LastIndexByte(text, '\n'); idx >= 0 {
		text = strings.TrimSpace(text[idx+1:])
	}

	var out scoreOutput
	if err := sonic.UnmarshalString(text, &out); err != nil {
		return scoreOutput{}, crerr.Wrapf(err, "decode scorer output %q", truncate(text, 120))
	}
	return out, nil
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if len(value) <= limit {
		return value
	}
	return value[:limit] + "..."
}
