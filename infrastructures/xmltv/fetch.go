package xmltv

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sobadon/sktv/domain/model/feed"
	"github.com/sobadon/sktv/internal/errutil"
	"github.com/ulikunitz/xz"
)

type decodeResult struct {
	doc *feed.Document
	err error
}

func (c *client) Fetch(ctx context.Context) (*feed.Document, error) {
	logger := log.Ctx(ctx).With().Str("feed", c.config.Name).Logger()

	body, err := c.download(ctx)
	if err != nil {
		c.metrics.FeedFetches.WithLabelValues(c.config.Name, errutil.CodeOf(err)).Inc()
		logger.Warn().Msgf("%+v", err)
		return nil, err
	}

	size := int64(len(body))
	c.metrics.FeedPayloadBytes.WithLabelValues(c.config.Name).Observe(float64(size))
	if size > c.config.SoftLimit {
		// 大きいだけなら捨てない
		c.metrics.FeedOversize.WithLabelValues(c.config.Name).Inc()
		logger.Warn().Msgf("feed payload is larger than soft limit (size = %d, limit = %d)", size, c.config.SoftLimit)
	}
	logger.Debug().Msgf("downloaded feed (size = %d)", size)

	// 解析は CPU を食うので別ゴルーチンで
	// 呼び出し側が諦めたら結果は捨てられる（チャネルはバッファ付きなのでリークしない）
	started := time.Now()
	done := make(chan decodeResult, 1)
	go func() {
		doc, err := decodePayload(body, c.config.MaxDecompressed, c.config.MaxProgrammes)
		done <- decodeResult{doc: doc, err: err}
	}()

	select {
	case <-ctx.Done():
		err := errors.Wrap(errutil.ErrFetch, ctx.Err().Error())
		c.metrics.FeedFetches.WithLabelValues(c.config.Name, errutil.CodeOf(err)).Inc()
		logger.Warn().Msg("abandoned feed parse")
		return nil, err
	case res := <-done:
		if res.err != nil {
			c.metrics.FeedFetches.WithLabelValues(c.config.Name, errutil.CodeOf(res.err)).Inc()
			logger.Error().Msgf("%+v", res.err)
			return nil, res.err
		}
		c.metrics.FeedFetches.WithLabelValues(c.config.Name, "ok").Inc()
		if res.doc.Truncated {
			logger.Warn().Msgf("stopped parsing feed at programme limit (limit = %d)", c.config.MaxProgrammes)
		}
		logger.Info().Msgf("successfully fetched feed (channels = %d, programmes = %d, parse = %s)",
			len(res.doc.Channels), len(res.doc.Programmes), time.Since(started))
		return res.doc, nil
	}
}

// タイムアウトはここだけに掛ける
// 時間切れになったものは途中まで読めていても使わない
func (c *client) download(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	log.Ctx(ctx).Debug().Msgf("http get target url: %s", c.config.URL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.URL, nil)
	if err != nil {
		return nil, errors.Wrap(errutil.ErrInternal, err.Error())
	}
	req.Header.Set("Accept", "application/xml, text/xml, application/gzip, */*")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errutil.ErrFetch, err.Error())
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errutil.ErrFetchStatus, "http status code is %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(errutil.ErrFetch, err.Error())
	}
	return body, nil
}

// 中身を見て圧縮されていれば展開してから Decode する
func decodePayload(body []byte, maxDecompressed int64, maxProgrammes int) (*feed.Document, error) {
	r, err := decompress(body)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return Decode(bytes.NewReader(body), maxProgrammes)
	}
	if maxDecompressed <= 0 {
		maxDecompressed = DefaultMaxDecompressed
	}
	return Decode(&decompressReader{r: r, limit: maxDecompressed}, maxProgrammes)
}

// 圧縮されていなければ nil を返す
func decompress(body []byte) (io.Reader, error) {
	mtype := mimetype.Detect(body)
	switch {
	case mtype.Is("application/gzip"):
		gzr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, errors.Wrap(errutil.ErrDecompress, err.Error())
		}
		return gzr, nil
	case mtype.Is("application/x-xz"):
		xzr, err := xz.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, errors.Wrap(errutil.ErrDecompress, err.Error())
		}
		return bufio.NewReader(xzr), nil
	case mtype.Is("application/x-bzip2"):
		// bzip2 はヘッダを読むまでエラーにならない
		return bzip2.NewReader(bytes.NewReader(body)), nil
	}
	return nil, nil
}

// 展開中のエラーを ErrDecompress にし、展開後のサイズを limit までに抑える
type decompressReader struct {
	r     io.Reader
	limit int64
	read  int64
}

func (d *decompressReader) Read(p []byte) (int, error) {
	if d.read >= d.limit {
		// ちょうど limit で終わっているなら正常終了
		var probe [1]byte
		if n, err := d.r.Read(probe[:]); n == 0 && err == io.EOF {
			return 0, io.EOF
		}
		return 0, errors.Wrapf(errutil.ErrDecompress, "decompressed payload exceeds %d bytes", d.limit)
	}
	if rest := d.limit - d.read; int64(len(p)) > rest {
		p = p[:rest]
	}

	n, err := d.r.Read(p)
	d.read += int64(n)
	if err != nil && err != io.EOF {
		return n, errors.Wrap(errutil.ErrDecompress, err.Error())
	}
	return n, err
}
