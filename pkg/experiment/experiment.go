/*
Package experiment wires a corpus, the n-gram predictor and the metrics
into one train/test run.

	src := corpus.NewJSONLSource(cfg.Corpus.Path)
	report, err := experiment.Run(ctx, src, cfg, logger.New("eval"))

Training reads cfg.Corpus.TrainStart..TrainEnd, drops SkipTokens leading
tokens of every review and concatenates the rest into one stream. Testing
windows the test range the same way; each window's last token is the word
to predict and the tokens before it are the context.
*/
package experiment

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/wordpredict/pkg/config"
	"github.com/bastiangx/wordpredict/pkg/corpus"
	"github.com/bastiangx/wordpredict/pkg/metrics"
	"github.com/bastiangx/wordpredict/pkg/ngram"
	"github.com/bastiangx/wordpredict/pkg/predict"
	"github.com/charmbracelet/log"
	"github.com/cheggaaa/pb/v3"
)

// progressEvery is how often prediction progress is logged.
const progressEvery = 100

// Report is the outcome of one run.
type Report struct {
	N                int
	Pairs            int
	AccuracyK        int
	Accuracy         float64
	TopRank          int
	KeystrokeSavings float64
	Elapsed          time.Duration
}

func loadStream(src corpus.Source, start, end, skip int) ([]string, error) {
	sentences, _, err := src.ReviewData(start, end)
	if err != nil {
		return nil, err
	}
	return ngram.Concat(corpus.TrimLeading(sentences, skip)), nil
}

// Train builds a predictor from the configured training range.
func Train(src corpus.Source, cfg *config.Config, lg *log.Logger) (*predict.Predictor, error) {
	lg.Info("Training the model", "n", cfg.Model.N, "records", fmt.Sprintf("[%d, %d)", cfg.Corpus.TrainStart, cfg.Corpus.TrainEnd))

	tokens, err := loadStream(src, cfg.Corpus.TrainStart, cfg.Corpus.TrainEnd, cfg.Corpus.SkipTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to load training data: %w", err)
	}
	store, err := ngram.Build(tokens, cfg.Model.N)
	if err != nil {
		return nil, err
	}
	smoothing, err := predict.ParseSmoothing(cfg.Model.Smoothing)
	if err != nil {
		return nil, err
	}

	lg.Info("Training done", "tokens", len(tokens), "vocab", store.VocabSize(), "ngrams", store.UniqueNgrams())
	return predict.New(store, smoothing)
}

// TestNgrams windows the configured test range.
func TestNgrams(src corpus.Source, cfg *config.Config) ([]ngram.NGram, error) {
	tokens, err := loadStream(src, cfg.Corpus.TestStart, cfg.Corpus.TestEnd, cfg.Corpus.SkipTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to load test data: %w", err)
	}
	return ngram.MakeNgrams(tokens, cfg.Model.N)
}

// Predict asks p for topN words after each test context and returns the
// true words alongside the prediction lists. progress, when non-nil,
// receives a progress bar.
func Predict(ctx context.Context, p predict.IPredictor, grams []ngram.NGram, topN int, progress io.Writer, lg *log.Logger) ([]string, [][]string, error) {
	lg.Info("Begin predicting", "contexts", len(grams))

	var bar *pb.ProgressBar
	if progress != nil {
		bar = pb.New(len(grams)).SetWriter(progress).Start()
		defer bar.Finish()
	}

	trueWords := make([]string, 0, len(grams))
	predicted := make([][]string, 0, len(grams))
	for i, g := range grams {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		prev, target := ngram.Split(g)
		words, err := p.Predict(prev, topN)
		if err != nil {
			return nil, nil, fmt.Errorf("prediction %d: %w", i, err)
		}
		trueWords = append(trueWords, target)
		predicted = append(predicted, words)

		if bar != nil {
			bar.Increment()
		}
		if (i+1)%progressEvery == 0 {
			lg.Debugf("Predicted %d/%d", i+1, len(grams))
		}
	}

	lg.Info("End predicting", "cache", p.Stats()["cacheContexts"])
	return trueWords, predicted, nil
}

// Evaluate scores prediction lists with both metrics.
func Evaluate(ctx context.Context, trueWords []string, predicted [][]string, eval config.EvalConfig, lg *log.Logger) (accuracy, savings float64, err error) {
	lg.Info("Getting accuracy", "k", eval.AccuracyK)
	accuracy, err = metrics.TopKAccuracy(trueWords, predicted, eval.AccuracyK)
	if err != nil {
		return 0, 0, err
	}

	lg.Info("Getting keystroke savings", "topRank", eval.TopRank, "workers", eval.Workers)
	savings, err = metrics.ParallelKeystrokeSavings(ctx, trueWords, predicted, eval.TopRank, eval.Workers)
	if err != nil {
		return 0, 0, err
	}
	return accuracy, savings, nil
}

// Run trains, predicts and evaluates according to cfg.
func Run(ctx context.Context, src corpus.Source, cfg *config.Config, lg *log.Logger) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	predictor, err := Train(src, cfg, lg)
	if err != nil {
		return nil, err
	}
	grams, err := TestNgrams(src, cfg)
	if err != nil {
		return nil, err
	}

	var progress io.Writer
	if cfg.Eval.Progress {
		progress = os.Stderr
	}
	trueWords, predicted, err := Predict(ctx, predictor, grams, cfg.Model.TopN, progress, lg)
	if err != nil {
		return nil, err
	}

	accuracy, savings, err := Evaluate(ctx, trueWords, predicted, cfg.Eval, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate %d pairs: %w", len(trueWords), err)
	}

	return &Report{
		N:                cfg.Model.N,
		Pairs:            len(trueWords),
		AccuracyK:        cfg.Eval.AccuracyK,
		Accuracy:         accuracy,
		TopRank:          cfg.Eval.TopRank,
		KeystrokeSavings: savings,
		Elapsed:          time.Since(start),
	}, nil
}
