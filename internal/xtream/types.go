package xtream

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString decodes a JSON value that providers send as either a
// string or a number. Xtream backends disagree on the types of ids.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// FlexInt decodes a JSON number that providers send as either a number
// or a numeric string. Anything unparsable decodes to 0.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}

func (f FlexInt) Int() int { return int(f) }

type accountResponse struct {
	UserInfo struct {
		Auth    FlexInt    `json:"auth"`
		Status  FlexString `json:"status"`
		ExpDate FlexString `json:"exp_date"`
	} `json:"user_info"`
}

// Category is a provider content group.
type Category struct {
	ID   FlexString `json:"category_id"`
	Name string     `json:"category_name"`
}

// LiveStream is one channel from get_live_streams.
type LiveStream struct {
	Name       string     `json:"name"`
	StreamID   FlexString `json:"stream_id"`
	Icon       string     `json:"stream_icon"`
	CategoryID FlexString `json:"category_id"`
}

// VODStream is one movie from get_vod_streams.
type VODStream struct {
	Name       string     `json:"name"`
	StreamID   FlexString `json:"stream_id"`
	Icon       string     `json:"stream_icon"`
	CategoryID FlexString `json:"category_id"`
	Container  FlexString `json:"container_extension"`
}

// Series is one show-level record from get_series.
type Series struct {
	Name       string     `json:"name"`
	SeriesID   FlexString `json:"series_id"`
	Cover      string     `json:"cover"`
	CategoryID FlexString `json:"category_id"`
}

// SeriesInfo is the get_series_info response: episodes keyed by season
// number.
type SeriesInfo struct {
	Episodes map[string][]Episode `json:"episodes"`
}

// Episode is one episode from get_series_info.
type Episode struct {
	ID        FlexString `json:"id"`
	Title     string     `json:"title"`
	Container FlexString `json:"container_extension"`
	Season    FlexInt    `json:"season"`
	Episode   FlexInt    `json:"episode_num"`
}
