package email

import "strconv"

// SendDatasetProcessedEmail notifies the requesting user that their
// dataset finished processing.
func (c *Client) SendDatasetProcessedEmail(to, datasetName, datasetID string, filesProcessed int) error {
	data := map[string]string{
		"DatasetName":    datasetName,
		"DatasetID":      datasetID,
		"FilesProcessed": strconv.Itoa(filesProcessed),
	}

	return c.SendEmail(
		to,
		"Your dataset is ready",
		TemplateDatasetProcessed,
		data,
	)
}
