package deck

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"

	ort "github.com/yalue/onnxruntime_go"
	"gocv.io/x/gocv"

	"autodeck/common"
)

// FigureExtractor detects figures on rendered PDF pages with a DocLayNet
// YOLO model and crops them out as candidate slide image assets.
type FigureExtractor struct {
	ModelPath     string
	ConfThreshold float32
	NMSThreshold  float32
	MinBoxSize    int
	session       *ort.DynamicAdvancedSession
}

// DocLayNet class names, in model output order.
var docLayoutClasses = []string{
	"Caption", "Footnote", "Formula", "List-item", "Page-footer",
	"Page-header", "Picture", "Section-header", "Table", "Text", "Title",
}

const (
	yoloInputSize = 1024
	yoloChannels  = 15
	yoloAnchors   = 21504
)

// NewFigureExtractor initializes the ONNX runtime and loads the model.
func NewFigureExtractor(modelPath string) (*FigureExtractor, error) {
	libPath := "/opt/homebrew/lib/libonnxruntime.dylib"
	if runtime.GOOS == "linux" {
		libPath = "/usr/lib/libonnxruntime.so"
	}

	ort.SetSharedLibraryPath(libPath)
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX Runtime: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{"images"}, []string{"output0"}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &FigureExtractor{
		ModelPath:     modelPath,
		ConfThreshold: 0.30,
		NMSThreshold:  0.45,
		MinBoxSize:    30,
		session:       session,
	}, nil
}

// Close releases the session and the runtime environment.
func (e *FigureExtractor) Close() {
	if e.session != nil {
		e.session.Destroy()
	}
	ort.DestroyEnvironment()
}

// ExtractFigures walks the PDF page by page and saves every detected
// Picture region as a PNG under outputDir. Pages that fail detection are
// skipped; extraction is best-effort by contract.
func (e *FigureExtractor) ExtractFigures(pdfPath, outputDir string) ([]string, error) {
	doc, err := common.OpenPDF(pdfPath)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	figuresDir := filepath.Join(outputDir, "figures")
	if err := os.MkdirAll(figuresDir, 0755); err != nil {
		return nil, err
	}

	var paths []string
	for page := 0; page < doc.NumPages; page++ {
		paths = append(paths, e.processPage(doc, page, figuresDir)...)
	}
	return paths, nil
}

func (e *FigureExtractor) processPage(doc *common.PDFDocument, pageNum int, outputDir string) []string {
	img, err := doc.PageImage(pageNum)
	if err != nil {
		return nil
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil
	}
	defer mat.Close()

	// Letterbox resize into the fixed model input.
	originalW, originalH := mat.Cols(), mat.Rows()
	longest := originalW
	if originalH > longest {
		longest = originalH
	}
	scale := float64(yoloInputSize) / float64(longest)
	newW := int(float64(originalW) * scale)
	newH := int(float64(originalH) * scale)

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(mat, &resized, image.Pt(newW, newH), 0, 0, gocv.InterpolationLinear)

	canvas := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(114, 114, 114, 0), yoloInputSize, yoloInputSize, gocv.MatTypeCV8UC3)
	defer canvas.Close()

	dx := (yoloInputSize - newW) / 2
	dy := (yoloInputSize - newH) / 2

	roi := canvas.Region(image.Rect(dx, dy, dx+newW, dy+newH))
	resized.CopyTo(&roi)
	roi.Close()

	channels := gocv.Split(canvas)
	defer channels[0].Close()
	defer channels[1].Close()
	defer channels[2].Close()

	inputData := make([]float32, 1*3*yoloInputSize*yoloInputSize)
	for c := 0; c < 3; c++ {
		fMat := gocv.NewMat()
		channels[c].ConvertTo(&fMat, gocv.MatTypeCV32F)
		fMat.MultiplyFloat(1.0 / 255.0)

		data, _ := fMat.DataPtrFloat32()
		copy(inputData[c*yoloInputSize*yoloInputSize:], data)
		fMat.Close()
	}

	inputTensor, err := ort.NewTensor(ort.NewShape(1, 3, yoloInputSize, yoloInputSize), inputData)
	if err != nil {
		return nil
	}
	defer inputTensor.Destroy()

	outputData := make([]float32, 1*yoloChannels*yoloAnchors)
	outputTensor, err := ort.NewTensor(ort.NewShape(1, yoloChannels, yoloAnchors), outputData)
	if err != nil {
		return nil
	}
	defer outputTensor.Destroy()

	if err := e.session.Run([]ort.Value{inputTensor}, []ort.Value{outputTensor}); err != nil {
		return nil
	}

	boxes, classIDs, confidences := e.parseDetections(outputTensor.GetData(), dx, dy, scale)

	var indices []int
	if len(boxes) > 0 {
		indices = gocv.NMSBoxes(boxes, confidences, e.ConfThreshold, e.NMSThreshold)
	}

	var paths []string
	for _, idx := range indices {
		label := docLayoutClasses[classIDs[idx]]
		box := boxes[idx]

		// Only Picture regions make sense as slide visuals.
		if label != "Picture" {
			continue
		}
		if box.Dx() < e.MinBoxSize || box.Dy() < e.MinBoxSize {
			continue
		}

		hiResBytes, err := doc.PagePNG(pageNum, 300)
		if err != nil {
			continue
		}
		hiRes, err := png.Decode(bytes.NewReader(hiResBytes))
		if err != nil {
			continue
		}

		sx := float64(hiRes.Bounds().Dx()) / float64(originalW)
		sy := float64(hiRes.Bounds().Dy()) / float64(originalH)
		cropRect := image.Rect(
			int(float64(box.Min.X)*sx), int(float64(box.Min.Y)*sy),
			int(float64(box.Max.X)*sx), int(float64(box.Max.Y)*sy),
		)

		cropped := common.CropImage(hiRes, cropRect)
		out := filepath.Join(outputDir, fmt.Sprintf("p%d_figure_%d.png", pageNum, box.Min.X))
		if err := common.SavePNG(out, cropped); err == nil {
			paths = append(paths, out)
		}
	}
	return paths
}

func (e *FigureExtractor) parseDetections(data []float32, dx, dy int, scale float64) ([]image.Rectangle, []int, []float32) {
	var boxes []image.Rectangle
	var classIDs []int
	var confidences []float32

	for j := 0; j < yoloAnchors; j++ {
		maxScore := float32(0.0)
		maxClassID := -1
		for k := 4; k < yoloChannels; k++ {
			if score := data[k*yoloAnchors+j]; score > maxScore {
				maxScore = score
				maxClassID = k - 4
			}
		}
		if maxScore <= e.ConfThreshold {
			continue
		}

		cx := (data[0*yoloAnchors+j] - float32(dx)) / float32(scale)
		cy := (data[1*yoloAnchors+j] - float32(dy)) / float32(scale)
		w := data[2*yoloAnchors+j] / float32(scale)
		h := data[3*yoloAnchors+j] / float32(scale)

		x := cx - w/2
		y := cy - h/2
		if x < 0 {
			x = 0
		}
		if y < 0 {
			y = 0
		}

		boxes = append(boxes, image.Rect(int(x), int(y), int(x+w), int(y+h)))
		classIDs = append(classIDs, maxClassID)
		confidences = append(confidences, maxScore)
	}
	return boxes, classIDs, confidences
}
