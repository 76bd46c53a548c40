package scraper

import (
	"context"
	"sync"
)

// Job is one unit of work for a scrape worker.
type Job struct {
	Index   int
	Request Request
}

// ScrapeAll scrapes every request with a pool of workers. Results come back
// in request order; a failed request carries its error in Result.Error.
// Every worker shares the scraper's fetcher and so its rate limit.
func (s *Scraper) ScrapeAll(ctx context.Context, requests []Request, workers int) []Result {
	if workers <= 0 {
		workers = 1
	}

	s.logger.Info("Starting concurrent scrape", "lemma_count", len(requests), "workers", workers)
	var wg sync.WaitGroup
	jobs := make(chan Job, len(requests))
	results := make(chan indexed, len(requests))

	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go s.worker(ctx, w, &wg, jobs, results)
	}

	for i, req := range requests {
		jobs <- Job{Index: i, Request: req}
	}
	close(jobs)

	wg.Wait()
	close(results)
	s.logger.Info("All scrape workers finished")

	out := make([]Result, len(requests))
	for r := range results {
		out[r.index] = r.result
	}
	return out
}

type indexed struct {
	index  int
	result Result
}

func (s *Scraper) worker(ctx context.Context, id int, wg *sync.WaitGroup, jobs <-chan Job, results chan<- indexed) {
	defer wg.Done()
	for job := range jobs {
		if err := ctx.Err(); err != nil {
			results <- indexed{job.Index, Result{Request: job.Request, Error: err}}
			continue
		}

		s.logger.Info("Worker started job", "worker_id", id, "lemma", job.Request.Lemma)
		res, err := s.Scrape(ctx, job.Request)
		if err != nil {
			s.logger.Error("Error scraping lemma", "worker_id", id, "lemma", job.Request.Lemma, "error", err)
			results <- indexed{job.Index, Result{Request: job.Request, Error: err}}
			continue
		}
		results <- indexed{job.Index, *res}
	}
}
