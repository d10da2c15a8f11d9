package httpapi

import (
	"time"

	"github.com/riskibarqy/diamond-odds/internal/domain/game"
	"github.com/riskibarqy/diamond-odds/internal/domain/ingestrun"
	"github.com/riskibarqy/diamond-odds/internal/domain/line"
	"github.com/riskibarqy/diamond-odds/internal/domain/playerprop"
	"github.com/riskibarqy/diamond-odds/internal/domain/prediction"
	"github.com/riskibarqy/diamond-odds/internal/usecase"
)

type gameDTO struct {
	ID         int64     `json:"id"`
	HomeTeamID int64     `json:"homeTeamId"`
	AwayTeamID int64     `json:"awayTeamId"`
	StartTime  time.Time `json:"startTime"`
	Status     string    `json:"status"`
	HomeScore  *int      `json:"homeScore"`
	AwayScore  *int      `json:"awayScore"`
	Season     int       `json:"season"`
}

type lineSnapshotDTO struct {
	ID             int64     `json:"id"`
	Sportsbook     string    `json:"sportsbook"`
	CycleID        string    `json:"cycleId"`
	HomeMoneyline  *int      `json:"homeMoneyline"`
	AwayMoneyline  *int      `json:"awayMoneyline"`
	HomeSpread     *float64  `json:"homeSpread"`
	HomeSpreadOdds *int      `json:"homeSpreadOdds"`
	AwaySpread     *float64  `json:"awaySpread"`
	AwaySpreadOdds *int      `json:"awaySpreadOdds"`
	OverUnder      *float64  `json:"overUnder"`
	OverOdds       *int      `json:"overOdds"`
	UnderOdds      *int      `json:"underOdds"`
	CapturedAt     time.Time `json:"capturedAt"`
}

type gameLinesDTO struct {
	Game  gameDTO           `json:"game"`
	Lines []lineSnapshotDTO `json:"lines"`
}

type playerPropDTO struct {
	ID         int64     `json:"id"`
	PlayerID   int64     `json:"playerId"`
	Sportsbook string    `json:"sportsbook"`
	PropType   string    `json:"propType"`
	Line       float64   `json:"line"`
	OverOdds   *int      `json:"overOdds"`
	UnderOdds  *int      `json:"underOdds"`
	Result     *float64  `json:"result"`
	HitOver    *bool     `json:"hitOver"`
	CycleID    string    `json:"cycleId"`
	CapturedAt time.Time `json:"capturedAt"`
}

type predictionDTO struct {
	GameID             int64     `json:"gameId"`
	PredictedHomeScore float64   `json:"predictedHomeScore"`
	PredictedAwayScore float64   `json:"predictedAwayScore"`
	PredictedTotal     float64   `json:"predictedTotal"`
	ConfidenceScore    float64   `json:"confidenceScore"`
	Model              string    `json:"model"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type cycleErrorDTO struct {
	Stage     string `json:"stage"`
	EventID   string `json:"eventId,omitempty"`
	HomeTeam  string `json:"homeTeam,omitempty"`
	AwayTeam  string `json:"awayTeam,omitempty"`
	GameID    int64  `json:"gameId,omitempty"`
	Bookmaker string `json:"bookmaker,omitempty"`
	Message   string `json:"message"`
}

type cycleResultDTO struct {
	CycleID          string          `json:"cycleId"`
	StartedAt        time.Time       `json:"startedAt"`
	FinishedAt       time.Time       `json:"finishedAt"`
	GamesSeen        int             `json:"gamesSeen"`
	GamesProcessed   int             `json:"gamesProcessed"`
	GamesSkipped     int             `json:"gamesSkipped"`
	SnapshotsWritten int             `json:"snapshotsWritten"`
	PropsWritten     int             `json:"propsWritten"`
	Errors           []cycleErrorDTO `json:"errors"`
}

type ingestionRunDTO struct {
	CycleID          string    `json:"cycleId"`
	Trigger          string    `json:"trigger"`
	Status           string    `json:"status"`
	GamesSeen        int       `json:"gamesSeen"`
	SnapshotsWritten int       `json:"snapshotsWritten"`
	PropsWritten     int       `json:"propsWritten"`
	ErrorCount       int       `json:"errorCount"`
	ErrorMessage     string    `json:"errorMessage,omitempty"`
	StartedAt        time.Time `json:"startedAt"`
	FinishedAt       time.Time `json:"finishedAt"`
	TraceID          string    `json:"traceId,omitempty"`
}

type schedulerStatusDTO struct {
	Running      bool  `json:"running"`
	InFlight     bool  `json:"inFlight"`
	DroppedTicks int64 `json:"droppedTicks"`
}

type ingestionStatusDTO struct {
	Scheduler schedulerStatusDTO `json:"scheduler"`
	Runs      []ingestionRunDTO  `json:"runs"`
}

func gameToDTO(v game.Game) gameDTO {
	return gameDTO{
		ID:         v.ID,
		HomeTeamID: v.HomeTeamID,
		AwayTeamID: v.AwayTeamID,
		StartTime:  v.StartTime,
		Status:     string(v.Status),
		HomeScore:  v.HomeScore,
		AwayScore:  v.AwayScore,
		Season:     v.Season,
	}
}

func lineSnapshotToDTO(v line.Snapshot) lineSnapshotDTO {
	return lineSnapshotDTO{
		ID:             v.ID,
		Sportsbook:     v.Sportsbook,
		CycleID:        v.CycleID,
		HomeMoneyline:  v.HomeMoneyline,
		AwayMoneyline:  v.AwayMoneyline,
		HomeSpread:     v.HomeSpread,
		HomeSpreadOdds: v.HomeSpreadOdds,
		AwaySpread:     v.AwaySpread,
		AwaySpreadOdds: v.AwaySpreadOdds,
		OverUnder:      v.OverUnder,
		OverOdds:       v.OverOdds,
		UnderOdds:      v.UnderOdds,
		CapturedAt:     v.CapturedAt,
	}
}

func playerPropToDTO(v playerprop.Prop) playerPropDTO {
	return playerPropDTO{
		ID:         v.ID,
		PlayerID:   v.PlayerID,
		Sportsbook: v.Sportsbook,
		PropType:   v.PropType,
		Line:       v.Line,
		OverOdds:   v.OverOdds,
		UnderOdds:  v.UnderOdds,
		Result:     v.Result,
		HitOver:    v.HitOver,
		CycleID:    v.CycleID,
		CapturedAt: v.CapturedAt,
	}
}

func predictionToDTO(v prediction.Prediction) predictionDTO {
	return predictionDTO{
		GameID:             v.GameID,
		PredictedHomeScore: v.PredictedHomeScore,
		PredictedAwayScore: v.PredictedAwayScore,
		PredictedTotal:     v.PredictedTotal,
		ConfidenceScore:    v.ConfidenceScore,
		Model:              v.Model,
		UpdatedAt:          v.UpdatedAt,
	}
}

func cycleResultToDTO(v usecase.CycleResult) cycleResultDTO {
	errs := make([]cycleErrorDTO, 0, len(v.Errors))
	for _, e := range v.Errors {
		errs = append(errs, cycleErrorDTO{
			Stage:     e.Stage,
			EventID:   e.EventID,
			HomeTeam:  e.HomeTeam,
			AwayTeam:  e.AwayTeam,
			GameID:    e.GameID,
			Bookmaker: e.Bookmaker,
			Message:   e.Message,
		})
	}
	return cycleResultDTO{
		CycleID:          v.CycleID,
		StartedAt:        v.StartedAt,
		FinishedAt:       v.FinishedAt,
		GamesSeen:        v.GamesSeen,
		GamesProcessed:   v.GamesProcessed,
		GamesSkipped:     v.GamesSkipped,
		SnapshotsWritten: v.SnapshotsWritten,
		PropsWritten:     v.PropsWritten,
		Errors:           errs,
	}
}

func ingestionRunToDTO(v ingestrun.Run) ingestionRunDTO {
	return ingestionRunDTO{
		CycleID:          v.CycleID,
		Trigger:          string(v.Trigger),
		Status:           string(v.Status),
		GamesSeen:        v.GamesSeen,
		SnapshotsWritten: v.SnapshotsWritten,
		PropsWritten:     v.PropsWritten,
		ErrorCount:       v.ErrorCount,
		ErrorMessage:     v.ErrorMessage,
		StartedAt:        v.StartedAt,
		FinishedAt:       v.FinishedAt,
		TraceID:          v.TraceID,
	}
}
