package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speechkit/corpus"
	"github.com/kbukum/speechkit/diarization"
	apperrors "github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/observability"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

// RecordingView is the /recordings representation of a recording.
type RecordingView struct {
	corpus.Recording
	Segments    int      `json:"segments"`
	Speakers    []string `json:"speakers"`
	FrameLength int      `json:"frame_length"`
	Chunks      int      `json:"chunks"`
}

// RecordingDetail adds the segment list to RecordingView.
type RecordingDetail struct {
	RecordingView
	SegmentList []SegmentView `json:"segment_list"`
}

// SegmentView is a segment with its resolved speaker.
type SegmentView struct {
	corpus.Segment
	Speaker string `json:"speaker"`
}

// ChunkView describes one loaded chunk.
type ChunkView struct {
	Index int `json:"index"`
	diarization.Chunk
	Frames       int      `json:"frames"`
	Samples      int      `json:"samples"`
	SampleRate   int      `json:"sample_rate"`
	Speakers     []string `json:"speakers"`
	Width        int      `json:"width"`
	ActiveFrames []int    `json:"active_frames"`
}

type datasetHandlers struct {
	ds       *diarization.Dataset
	plans    map[string]diarization.RecordingPlan
	service  string
	version  string
	checkers []observability.HealthChecker
}

// RegisterDataset installs the dataset routes.
func (s *Server) RegisterDataset(ds *diarization.Dataset, service, version string, checkers ...observability.HealthChecker) {
	h := &datasetHandlers{
		ds:       ds,
		plans:    make(map[string]diarization.RecordingPlan),
		service:  service,
		version:  version,
		checkers: checkers,
	}
	for _, p := range ds.Plans() {
		h.plans[p.Recording] = p
	}

	s.engine.GET("/health", h.health)
	s.engine.GET("/recordings", h.listRecordings)
	s.engine.GET("/recordings/:id", h.getRecording)
	s.engine.GET("/chunks", h.listChunks)
	s.engine.GET("/chunks/:index", h.getChunk)
}

func (h *datasetHandlers) health(c *gin.Context) {
	sh := observability.CheckAll(c.Request.Context(), h.service, h.version, h.checkers...)
	status := http.StatusOK
	if !sh.Healthy() {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, sh)
}

func (h *datasetHandlers) view(rec corpus.Recording) RecordingView {
	idx := h.ds.Index()
	plan := h.plans[rec.ID]
	return RecordingView{
		Recording:   rec,
		Segments:    len(idx.Segments(rec.ID)),
		Speakers:    idx.Speakers(rec.ID).IDs(),
		FrameLength: plan.FrameLength,
		Chunks:      plan.Chunks,
	}
}

func (h *datasetHandlers) listRecordings(c *gin.Context) {
	idx := h.ds.Index()
	ids := idx.Recordings()
	out := make([]RecordingView, 0, len(ids))
	for _, id := range ids {
		rec, _ := idx.Recording(id)
		out = append(out, h.view(rec))
	}
	RespondOK(c, out)
}

func (h *datasetHandlers) getRecording(c *gin.Context) {
	idx := h.ds.Index()
	rec, ok := idx.Recording(c.Param("id"))
	if !ok {
		RespondWithError(c, apperrors.NotFound("recording", c.Param("id")))
		return
	}
	segs := idx.Segments(rec.ID)
	detail := RecordingDetail{RecordingView: h.view(rec), SegmentList: make([]SegmentView, len(segs))}
	for i, seg := range segs {
		spk, _ := idx.Speaker(seg.Utterance)
		detail.SegmentList[i] = SegmentView{Segment: seg, Speaker: spk}
	}
	RespondOK(c, detail)
}

func (h *datasetHandlers) listChunks(c *gin.Context) {
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	limit, err := queryInt(c, "limit", defaultPageLimit)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	if limit <= 0 || limit > maxPageLimit {
		RespondWithError(c, apperrors.InvalidInput("limit", "must be between 1 and "+strconv.Itoa(maxPageLimit)))
		return
	}

	chunks := h.ds.Chunks()
	start := min(offset, len(chunks))
	end := min(start+limit, len(chunks))
	RespondOKWithMeta(c, chunks[start:end], &Meta{Offset: offset, Limit: limit, Total: len(chunks)})
}

func (h *datasetHandlers) getChunk(c *gin.Context) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		RespondWithError(c, apperrors.InvalidInput("index", "must be an integer"))
		return
	}
	item, err := h.ds.Get(c.Request.Context(), i)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, ChunkView{
		Index:        i,
		Chunk:        diarization.Chunk{Recording: item.Recording, Start: item.Start, End: item.End},
		Frames:       item.Frames(),
		Samples:      len(item.Audio),
		SampleRate:   item.SampleRate,
		Speakers:     item.Speakers,
		Width:        item.Width(),
		ActiveFrames: item.ActiveFrames(),
	})
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, apperrors.InvalidInput(key, "must be a non-negative integer")
	}
	return v, nil
}
