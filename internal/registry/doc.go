// Package registry implements kagglefetch.Registry against the Kaggle public API.
//
// Downloads land in a local cache laid out as
// {cache}/datasets/{owner}/{dataset}/versions/{N}/{path}. A file already present
// at that location is returned without contacting the API again.
package registry
