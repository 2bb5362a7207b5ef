package exporter

// ProgressEvent 导出进度
type ProgressEvent struct {
	Percent int
	Stage   string
	Sheet   string // 刚写完的工作表，开始/结束事件为空
	Rows    int
}

func reportProgress(progress func(ProgressEvent), evt ProgressEvent) {
	if progress == nil {
		return
	}
	evt.Percent = min(max(evt.Percent, 0), 100)
	progress(evt)
}
